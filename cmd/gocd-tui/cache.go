package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/altinukshini/gocd-tui/internal/config"
	"github.com/altinukshini/gocd-tui/internal/report"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the material search cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := openCache(config.Load(viper.GetViper()))
		if err != nil {
			return err
		}
		entries, err := sc.ListEntries()
		if err != nil {
			return err
		}
		report.CacheEntries(cmd.OutOrStdout(), entries, time.Now())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := openCache(config.Load(viper.GetViper()))
		if err != nil {
			return err
		}
		size, err := sc.TotalSize()
		if err != nil {
			return err
		}
		if err := sc.DeleteAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Removed %d bytes of cached searches", size))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
