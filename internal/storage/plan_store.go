// internal/storage/plan_store.go
package storage

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/CreativeCreatives/creative-creatives/internal/models"
)

const plansDir = "plans"

// PlanStore persists storyboard plans as one JSON document per plan, grouped
// by project: <base>/plans/<projectID>/<planID>.json.
type PlanStore struct {
	files *FileStorage
}

func NewPlanStore(files *FileStorage) *PlanStore {
	return &PlanStore{files: files}
}

func planDir(projectID string) string {
	if projectID == "" {
		projectID = "unassigned"
	}
	return filepath.Join(plansDir, projectID)
}

// SavePlan writes the plan document, replacing any prior version.
func (s *PlanStore) SavePlan(plan *models.StoryboardPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("plan has no id")
	}
	return s.files.SaveJSON(planDir(plan.ProjectID), plan.ID+".json", plan)
}

// GetPlan loads one plan by project and id.
func (s *PlanStore) GetPlan(projectID, planID string) (*models.StoryboardPlan, error) {
	var plan models.StoryboardPlan
	if err := s.files.LoadJSON(planDir(projectID), planID+".json", &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans returns every stored plan for a project, newest first.
func (s *PlanStore) ListPlans(projectID string) ([]*models.StoryboardPlan, error) {
	names, err := s.files.ListJSONFiles(planDir(projectID))
	if err != nil {
		return nil, err
	}

	plans := make([]*models.StoryboardPlan, 0, len(names))
	for _, name := range names {
		var plan models.StoryboardPlan
		if err := s.files.LoadJSON(planDir(projectID), name, &plan); err != nil {
			// Skip unreadable documents rather than failing the listing.
			continue
		}
		plans = append(plans, &plan)
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// DeletePlan removes one stored plan.
func (s *PlanStore) DeletePlan(projectID, planID string) error {
	return s.files.DeleteFile(planDir(projectID), planID+".json")
}
