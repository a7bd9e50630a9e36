package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the server-assigned identity and timestamps shared by every
// mutable record.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewID returns a time-ordered UUID.
func NewID() string { return uuid.Must(uuid.NewV7()).String() }

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

type TeamMember struct {
	Base
	Name             string     `gorm:"size:255;not null" json:"name" binding:"required"`
	Department       Department `gorm:"size:32;not null;index" json:"department" binding:"required,oneof=marketing digital ar_international"`
	JobTitle         string     `gorm:"size:255;not null" json:"jobTitle" binding:"required"`
	Responsibilities *string    `gorm:"type:text" json:"responsibilities"`
	Email            *string    `gorm:"size:255" json:"email" binding:"omitempty,email"`
}

type Meeting struct {
	Base
	Title        string                      `gorm:"size:255;not null" json:"title" binding:"required"`
	Type         MeetingType                 `gorm:"size:32;not null;index" json:"type" binding:"required,oneof=marketing focus_songs_update focus_songs_strategy weekly_recap"`
	Description  *string                     `gorm:"type:text" json:"description"`
	Date         Date                        `gorm:"not null;index" json:"date" binding:"required"`
	Time         string                      `gorm:"size:8;not null" json:"time" binding:"required"`
	Duration     string                      `gorm:"size:16" json:"duration" binding:"omitempty,numeric"`
	Participants datatypes.JSONSlice[string] `json:"participants"`
	Agenda       datatypes.JSONSlice[string] `json:"agenda"`
	CreatedBy    string                      `gorm:"size:64;not null" json:"createdBy"`
	Status       string                      `gorm:"size:32" json:"status"`
}

type FocusSong struct {
	Base
	Title                  string        `gorm:"size:255;not null" json:"title" binding:"required"`
	Artist                 string        `gorm:"size:255;not null" json:"artist" binding:"required"`
	Status                 SongStatus    `gorm:"size:16" json:"status" binding:"required,oneof=active promoted planning paused"`
	Category               TrackCategory `gorm:"size:16;index" json:"category" binding:"required,oneof=active_focus back_catalog"`
	ReleaseDate            *Date         `json:"releaseDate"`
	YoutubeProgress        *string       `gorm:"type:text" json:"youtubeProgress"`
	SocialMediaProgress    *string       `gorm:"type:text" json:"socialMediaProgress"`
	SpotifyProgress        *string       `gorm:"type:text" json:"spotifyProgress"`
	RadioProgress          *string       `gorm:"type:text" json:"radioProgress"`
	PressProgress          *string       `gorm:"type:text" json:"pressProgress"`
	YoutubeResponsible     *string       `gorm:"size:255" json:"youtubeResponsible"`
	SocialMediaResponsible *string       `gorm:"size:255" json:"socialMediaResponsible"`
	SpotifyResponsible     *string       `gorm:"size:255" json:"spotifyResponsible"`
	RadioResponsible       *string       `gorm:"size:255" json:"radioResponsible"`
	PressResponsible       *string       `gorm:"size:255" json:"pressResponsible"`
	Notes                  *string       `gorm:"type:text" json:"notes"`
}

// Task.AssignedToName is a copy of the member's name taken at assignment time.
// It is not refreshed when the member is renamed.
type Task struct {
	Base
	Title          string     `gorm:"size:255;not null" json:"title" binding:"required"`
	Description    *string    `gorm:"type:text" json:"description"`
	AssignedTo     *string    `gorm:"size:36;index" json:"assignedTo"`
	AssignedToName *string    `gorm:"size:255" json:"assignedToName"`
	Status         TaskStatus `gorm:"size:16;index" json:"status" binding:"required,oneof=todo in_progress done paused not_done cancelled"`
	Priority       Priority   `gorm:"size:16" json:"priority" binding:"required,oneof=low medium high"`
	Deadline       *Date      `json:"deadline"`
	MeetingID      *string    `gorm:"size:36;index" json:"meetingId"`
	FocusSongID    *string    `gorm:"size:36;index" json:"focusSongId"`
	Channel        *Channel   `gorm:"size:16" json:"channel" binding:"omitempty,oneof=youtube spotify social_media press radio general"`
	CreatedBy      string     `gorm:"size:64;not null" json:"createdBy"`
}

type MeetingMinutes struct {
	Base
	MeetingID           string                      `gorm:"size:36;not null;uniqueIndex" json:"meetingId" binding:"required"`
	Participants        datatypes.JSONSlice[string] `json:"participants"`
	Duration            *string                     `gorm:"size:16" json:"duration"`
	Agenda              datatypes.JSONSlice[string] `json:"agenda"`
	Decisions           datatypes.JSONSlice[string] `json:"decisions"`
	AssignedTasks       datatypes.JSONSlice[string] `json:"assignedTasks"`
	FocusSongsDiscussed datatypes.JSONSlice[string] `json:"focusSongsDiscussed"`
	Notes               *string                     `gorm:"type:text" json:"notes"`
	CreatedBy           string                      `gorm:"size:64;not null" json:"createdBy"`
}

// DailyMetrics is one snapshot for a focus song. Counters are kept as the
// text the team typed ("12,345"); see package growth for parsing.
type DailyMetrics struct {
	Base
	FocusSongID               string  `gorm:"size:36;not null;index" json:"focusSongId" binding:"required"`
	Date                      Date    `gorm:"not null;index" json:"date" binding:"required"`
	Channel                   Channel `gorm:"size:16;not null" json:"channel" binding:"required,oneof=youtube spotify social_media press radio general"`
	YoutubeViews              *string `gorm:"size:64" json:"youtubeViews"`
	YoutubeAdViews            *string `gorm:"size:64" json:"youtubeAdViews"`
	YoutubeAvgTime            *string `gorm:"size:64" json:"youtubeAvgTime"`
	SpotifyStreams            *string `gorm:"size:64" json:"spotifyStreams"`
	SpotifyPlaylistEntries    *string `gorm:"size:64" json:"spotifyPlaylistEntries"`
	InstagramViews            *string `gorm:"size:64" json:"instagramViews"`
	TiktokViews               *string `gorm:"size:64" json:"tiktokViews"`
	TiktokVideosPerSound      *string `gorm:"size:64" json:"tiktokVideosPerSound"`
	TiktokPostLink            *string `gorm:"size:512" json:"tiktokPostLink"`
	TiktokPostViews           *string `gorm:"size:64" json:"tiktokPostViews"`
	TiktokPostShares          *string `gorm:"size:64" json:"tiktokPostShares"`
	TiktokPostLikes           *string `gorm:"size:64" json:"tiktokPostLikes"`
	TiktokPostSaves           *string `gorm:"size:64" json:"tiktokPostSaves"`
	InstagramPostLink         *string `gorm:"size:512" json:"instagramPostLink"`
	InstagramPostViews        *string `gorm:"size:64" json:"instagramPostViews"`
	InstagramPostLikes        *string `gorm:"size:64" json:"instagramPostLikes"`
	InstagramVideosUsingSound *string `gorm:"size:64" json:"instagramVideosUsingSound"`
	TiktokVideosUsingSound    *string `gorm:"size:64" json:"tiktokVideosUsingSound"`
	PressReleasePickups       *string `gorm:"size:64" json:"pressReleasePickups"`
	RadioStationsPlaying      *string `gorm:"size:64" json:"radioStationsPlaying"`
	RadioTotalPlays           *string `gorm:"size:64" json:"radioTotalPlays"`
	Notes                     *string `gorm:"type:text" json:"notes"`
	CreatedBy                 string  `gorm:"size:64;not null" json:"createdBy"`
}

type ActionItem struct {
	Base
	Title          string       `gorm:"size:255;not null" json:"title" binding:"required"`
	Description    *string      `gorm:"type:text" json:"description"`
	Type           string       `gorm:"size:32;not null;index" json:"type" binding:"required,oneof=focus_song task meeting calendar"`
	RelatedID      *string      `gorm:"size:36" json:"relatedId"`
	Channel        *Channel     `gorm:"size:16" json:"channel" binding:"omitempty,oneof=youtube spotify social_media press radio general"`
	AssignedTo     *string      `gorm:"size:64;index" json:"assignedTo"`
	AssignedToName *string      `gorm:"size:255" json:"assignedToName"`
	Status         ActionStatus `gorm:"size:16;index" json:"status" binding:"required,oneof=planned in_progress completed postponed"`
	Priority       Priority     `gorm:"size:16" json:"priority" binding:"required,oneof=low medium high"`
	DueDate        *Date        `json:"dueDate"`
	CompletedDate  *Date        `json:"completedDate"`
	Notes          *string      `gorm:"type:text" json:"notes"`
	CreatedBy      string       `gorm:"size:64;not null" json:"createdBy"`
}

// CalendarAction is a "thing we said we gonna do". CompletedDate is set
// exactly when IsCompleted is true.
type CalendarAction struct {
	Base
	Title          string     `gorm:"size:255;not null" json:"title" binding:"required"`
	Description    *string    `gorm:"type:text" json:"description"`
	Date           Date       `gorm:"not null;index" json:"date" binding:"required"`
	SourceType     SourceType `gorm:"size:16;not null" json:"sourceType" binding:"required,oneof=manual meeting task focus_song"`
	SourceID       *string    `gorm:"size:36" json:"sourceId"`
	AssignedTo     *string    `gorm:"size:64" json:"assignedTo"`
	AssignedToName *string    `gorm:"size:255" json:"assignedToName"`
	IsCompleted    bool       `gorm:"not null;default:false;index" json:"isCompleted"`
	CompletedDate  *Date      `json:"completedDate"`
	Notes          *string    `gorm:"type:text" json:"notes"`
	CreatedBy      string     `gorm:"size:64;not null" json:"createdBy"`
}

// HistoryLog rows are append-only.
type HistoryLog struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	EntityType string        `gorm:"size:32;not null;index:idx_history_entity" json:"entityType"`
	EntityID   string        `gorm:"size:36;not null;index:idx_history_entity" json:"entityId"`
	Action     HistoryAction `gorm:"size:16;not null" json:"action"`
	FieldName  *string       `gorm:"size:64" json:"fieldName"`
	OldValue   *string       `gorm:"type:text" json:"oldValue"`
	NewValue   *string       `gorm:"type:text" json:"newValue"`
	UserID     string        `gorm:"size:64;not null" json:"userId"`
	CreatedAt  time.Time     `gorm:"index" json:"createdAt"`
}

func (TeamMember) TableName() string     { return "team_members" }
func (Meeting) TableName() string        { return "meetings" }
func (FocusSong) TableName() string      { return "focus_songs" }
func (Task) TableName() string           { return "tasks" }
func (MeetingMinutes) TableName() string { return "meeting_minutes" }
func (DailyMetrics) TableName() string   { return "daily_metrics" }
func (ActionItem) TableName() string     { return "action_items" }
func (CalendarAction) TableName() string { return "calendar_actions" }
func (HistoryLog) TableName() string     { return "history_log" }

// All lists every table in migration order.
func All() []any {
	return []any{
		&TeamMember{}, &Meeting{}, &FocusSong{}, &Task{}, &MeetingMinutes{},
		&DailyMetrics{}, &ActionItem{}, &CalendarAction{}, &HistoryLog{},
	}
}
