package ops

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/altinukshini/gocd-tui/internal/model"
)

// Scheduler triggers a pipeline run.
type Scheduler interface {
	Schedule(ctx context.Context, pipeline string, req model.ScheduleRequest) (string, error)
}

type TriggerOptions struct {
	// Selections maps material fingerprint to the revision to pin.
	Selections map[string]string
	// Overrides maps variable name to its new value.
	Overrides       map[string]string
	UpdateMaterials bool
}

// BuildSchedule turns the user's choices into a schedule request. Only
// materials with a selected revision are pinned and only variables whose
// value was changed are sent, so the server defaults apply to the rest.
func BuildSchedule(info *model.TriggerWithOptionsInfo, opts TriggerOptions) model.ScheduleRequest {
	req := model.ScheduleRequest{UpdateMaterialsBeforeScheduling: opts.UpdateMaterials}
	if info == nil {
		return req
	}

	for _, m := range info.Materials {
		rev, ok := opts.Selections[m.Fingerprint]
		if !ok || rev == "" {
			continue
		}
		req.Materials = append(req.Materials, model.ScheduleMaterial{
			Fingerprint: m.Fingerprint,
			Revision:    rev,
		})
	}

	for _, v := range info.Variables {
		val, ok := opts.Overrides[v.Name]
		if !ok || (!v.Secure && val == v.Value) {
			continue
		}
		req.EnvironmentVariables = append(req.EnvironmentVariables, model.ScheduleVariable{
			Name:   v.Name,
			Value:  val,
			Secure: v.Secure,
		})
	}
	return req
}

// Summary describes a schedule request in one line for the confirm dialog.
func Summary(pipeline string, req model.ScheduleRequest) string {
	s := fmt.Sprintf("Trigger %s", pipeline)
	switch n := len(req.Materials); n {
	case 0:
		s += " with latest revisions"
	case 1:
		s += " with 1 pinned revision"
	default:
		s += fmt.Sprintf(" with %d pinned revisions", n)
	}
	if n := len(req.EnvironmentVariables); n > 0 {
		s += fmt.Sprintf(", %d variable override(s)", n)
	}
	if req.UpdateMaterialsBeforeScheduling {
		s += ", updating materials first"
	}
	return s
}

func Trigger(ctx context.Context, scheduler Scheduler, pipeline string, req model.ScheduleRequest, logger *slog.Logger) (string, error) {
	logger.Info("scheduling pipeline",
		"pipeline", pipeline,
		"pinned", len(req.Materials),
		"variables", len(req.EnvironmentVariables),
		"update_materials", req.UpdateMaterialsBeforeScheduling)
	msg, err := scheduler.Schedule(ctx, pipeline, req)
	if err != nil {
		logger.Error("schedule failed", "pipeline", pipeline, "error", err)
		return "", err
	}
	if msg == "" {
		msg = fmt.Sprintf("Request to schedule pipeline %s accepted", pipeline)
	}
	return msg, nil
}
