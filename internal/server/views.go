package server

import (
	"context"
	"errors"

	"mimi/internal/model"
	"mimi/internal/service"
)

// taskView is a task as the pages render it, with the repeat pattern of
// its template.
type taskView struct {
	model.Task
	RepeatInfo *service.RepeatInfo `json:"repeat_info"`
}

type templateView struct {
	model.Template
	RepeatInfo *service.RepeatInfo `json:"repeat_info"`
}

func newTemplateView(template *model.Template) templateView {
	return templateView{Template: *template, RepeatInfo: service.RepeatInfoFor(template)}
}

func templateViews(templates []model.Template) []templateView {
	views := make([]templateView, 0, len(templates))
	for i := range templates {
		views = append(views, newTemplateView(&templates[i]))
	}
	return views
}

// repeatInfos maps template ids to their display pattern.
func (s *Server) repeatInfos(ctx context.Context) (map[uint]*service.RepeatInfo, error) {
	templates, err := s.templates.ListTemplates(ctx, false)
	if err != nil {
		return nil, err
	}
	infos := make(map[uint]*service.RepeatInfo, len(templates))
	for i := range templates {
		infos[templates[i].ID] = service.RepeatInfoFor(&templates[i])
	}
	return infos, nil
}

func attachRepeatInfo(tasks []model.Task, infos map[uint]*service.RepeatInfo) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		view := taskView{Task: task}
		if task.TemplateID != nil {
			view.RepeatInfo = infos[*task.TemplateID]
		}
		views = append(views, view)
	}
	return views
}

// taskViews attaches repeat info to tasks using one template lookup.
func (s *Server) taskViews(ctx context.Context, tasks []model.Task) ([]taskView, error) {
	if len(tasks) == 0 {
		return []taskView{}, nil
	}
	infos, err := s.repeatInfos(ctx)
	if err != nil {
		return nil, err
	}
	return attachRepeatInfo(tasks, infos), nil
}

func (s *Server) taskView(ctx context.Context, task *model.Task) (taskView, error) {
	view := taskView{Task: *task}
	if task.TemplateID == nil {
		return view, nil
	}
	template, err := s.templates.GetTemplate(ctx, *task.TemplateID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return view, nil
	case err != nil:
		return view, err
	}
	view.RepeatInfo = service.RepeatInfoFor(template)
	return view, nil
}
