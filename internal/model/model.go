package model

// MeetingTemplate pre-fills a new meeting of the given type.
type MeetingTemplate struct {
	Type     MeetingType `json:"type"`
	Title    string      `json:"title"`
	Duration string      `json:"duration"`
	Agenda   []string    `json:"agenda"`
}

var meetingTemplates = []MeetingTemplate{
	{
		Type:     MeetingMarketing,
		Title:    "Marketing Meeting",
		Duration: "60",
		Agenda: []string{
			"Quick round of priorities",
			"Active songs (press, social, radio, content, video)",
			"New tasks assignment",
			"Weekly calendar review",
			"Final summary and assignments",
		},
	},
	{
		Type:     MeetingFocusSongsUpdate,
		Title:    "Focus Songs Update Meeting",
		Duration: "90",
		Agenda: []string{
			"Focus songs updates (15 min per song)",
			"Last week's actions and results",
			"This week's plan",
			"Back catalog song selection (mandatory)",
			"Confirm tasks per department",
		},
	},
	{
		Type:     MeetingFocusSongsStrategy,
		Title:    "Focus Songs Strategy Meeting",
		Duration: "120",
		Agenda: []string{
			"Follow-up on last week's proposals",
			"Analyze each song current status",
			"New ideas and strategies",
			"Clear actions and responsibilities",
			"Recap of assignments and deadlines",
		},
	},
	{
		Type:     MeetingWeeklyRecap,
		Title:    "Weekly Recap Meeting",
		Duration: "45",
		Agenda: []string{
			"Quick round of accomplishments",
			"Obstacles and challenges",
			"Progress recap on focus songs",
			"Notes for next week",
			"Action items review",
		},
	},
}

// MeetingTemplates returns a copy of the built-in templates.
func MeetingTemplates() []MeetingTemplate {
	out := make([]MeetingTemplate, len(meetingTemplates))
	for i, t := range meetingTemplates {
		t.Agenda = append([]string(nil), t.Agenda...)
		out[i] = t
	}
	return out
}

func TemplateFor(t MeetingType) (MeetingTemplate, bool) {
	for _, tpl := range MeetingTemplates() {
		if tpl.Type == t {
			return tpl, true
		}
	}
	return MeetingTemplate{}, false
}

// User is the mock identity returned while authentication is disabled.
type User struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// Roster is the YAML document loaded by the seed command.
type Roster struct {
	Members []RosterMember `yaml:"members"`
}

type RosterMember struct {
	Name             string `yaml:"name"`
	Department       string `yaml:"department"`
	JobTitle         string `yaml:"job_title"`
	Responsibilities string `yaml:"responsibilities"`
	Email            string `yaml:"email"`
}
