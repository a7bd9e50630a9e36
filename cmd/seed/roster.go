package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"teamops/internal/logger"
	"teamops/internal/model"
	"teamops/internal/patch"
	"teamops/internal/service"

	"gopkg.in/yaml.v3"
)

func loadRoster(path string) (*model.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var r model.Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return &r, nil
}

// seedRoster adds members not already present, matching on name and
// department. Running it twice adds nothing the second time.
func seedRoster(ctx context.Context, team *service.TeamService, r *model.Roster, actor string) (added, skipped int, err error) {
	existing, err := team.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	have := map[string]bool{}
	for _, m := range existing {
		have[rosterKey(m.Name, string(m.Department))] = true
	}

	for _, rm := range r.Members {
		key := rosterKey(rm.Name, rm.Department)
		if have[key] {
			skipped++
			continue
		}
		p, err := rosterPatch(rm)
		if err != nil {
			return added, skipped, err
		}
		m, err := team.Create(ctx, p, actor)
		if err != nil {
			return added, skipped, fmt.Errorf("seed %q: %w", rm.Name, err)
		}
		have[key] = true
		added++
		logger.Info("member added", "id", m.ID, "name", m.Name, "department", m.Department)
	}
	return added, skipped, nil
}

func rosterKey(name, dept string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + dept
}

func rosterPatch(rm model.RosterMember) (patch.Patch, error) {
	fields := map[string]any{
		"name":       rm.Name,
		"department": rm.Department,
		"jobTitle":   rm.JobTitle,
	}
	if rm.Responsibilities != "" {
		fields["responsibilities"] = rm.Responsibilities
	}
	if rm.Email != "" {
		fields["email"] = rm.Email
	}
	p := patch.Patch{}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		p[k] = raw
	}
	return p, nil
}
