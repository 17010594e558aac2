package fallback

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/content"
)

var moduleTemplates = []struct {
	title string
	hours int
	skill string
}{
	{"Foundations of %s", 4, "%s fundamentals"},
	{"Core %s Concepts", 6, "%s terminology"},
	{"%s Tools and Workflows", 6, "%s tooling"},
	{"Hands-on %s Projects", 10, "practical %s"},
	{"Advanced %s Techniques", 8, "advanced %s"},
	{"%s Best Practices", 5, "%s quality"},
	{"%s Capstone Project", 12, "%s project delivery"},
	{"%s Career Preparation", 4, "%s interviewing"},
}

// CareerModules synthesizes count modules for the career path pathName.
// Counts beyond the template list continue with numbered deep dives.
func CareerModules(pathName string, count int) []content.CareerModule {
	name := strings.TrimSpace(pathName)
	if name == "" {
		name = "Career"
	}
	mods := make([]content.CareerModule, count)
	for i := range mods {
		if i < len(moduleTemplates) {
			t := moduleTemplates[i]
			mods[i] = content.CareerModule{
				Title:          fmt.Sprintf(t.title, name),
				Description:    fmt.Sprintf("Module %d of the %s path.", i+1, name),
				EstimatedHours: t.hours,
				KeySkills:      []string{fmt.Sprintf(t.skill, name), "problem solving"},
			}
			continue
		}
		mods[i] = content.CareerModule{
			Title:          fmt.Sprintf("%s Deep Dive %d", name, i-len(moduleTemplates)+1),
			Description:    fmt.Sprintf("Module %d of the %s path.", i+1, name),
			EstimatedHours: 6,
			KeySkills:      []string{fmt.Sprintf("specialized %s", name), "problem solving"},
		}
	}
	return mods
}

// CareerPaths returns four deterministic career paths derived from the
// learner's goal, skills and interests. Each path carries modulesPerPath
// synthesized modules.
func CareerPaths(p content.Profile, modulesPerPath int) []content.CareerPath {
	goal := strings.TrimSpace(p.Goal)
	if goal == "" {
		goal = "Technology"
	}
	skill := first(p.Skills, goal)
	interest := first(p.Interests, goal)

	paths := []content.CareerPath{
		{
			PathName:                fmt.Sprintf("%s Professional", goal),
			Description:             fmt.Sprintf("A direct route to becoming a %s professional.", goal),
			Difficulty:              content.DifficultyIntermediate,
			EstimatedTimeToComplete: "6 months",
			RelevanceScore:          95,
		},
		{
			PathName:                fmt.Sprintf("%s Foundations", goal),
			Description:             fmt.Sprintf("Build the groundwork for %s starting from your %s experience.", goal, skill),
			Difficulty:              content.DifficultyBeginner,
			EstimatedTimeToComplete: "3 months",
			RelevanceScore:          85,
		},
		{
			PathName:                fmt.Sprintf("%s for %s", skill, goal),
			Description:             fmt.Sprintf("Apply %s to grow toward %s with a focus on %s.", skill, goal, interest),
			Difficulty:              content.DifficultyIntermediate,
			EstimatedTimeToComplete: "4 months",
			RelevanceScore:          80,
		},
		{
			PathName:                fmt.Sprintf("Advanced %s", goal),
			Description:             fmt.Sprintf("Specialize in %s and lead projects in %s.", goal, interest),
			Difficulty:              content.DifficultyAdvanced,
			EstimatedTimeToComplete: "9 months",
			RelevanceScore:          75,
		},
	}
	if skill == goal {
		paths[2].PathName = fmt.Sprintf("Applied %s", goal)
	}
	for i := range paths {
		paths[i].Modules = CareerModules(paths[i].PathName, modulesPerPath)
	}
	return paths
}

func first(values []string, fallback string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return fallback
}
