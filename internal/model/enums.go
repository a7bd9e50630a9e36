package model

type Department string

const (
	DepartmentMarketing       Department = "marketing"
	DepartmentDigital         Department = "digital"
	DepartmentARInternational Department = "ar_international"
)

type MeetingType string

const (
	MeetingMarketing          MeetingType = "marketing"
	MeetingFocusSongsUpdate   MeetingType = "focus_songs_update"
	MeetingFocusSongsStrategy MeetingType = "focus_songs_strategy"
	MeetingWeeklyRecap        MeetingType = "weekly_recap"
)

type SongStatus string

const (
	SongActive   SongStatus = "active"
	SongPromoted SongStatus = "promoted"
	SongPlanning SongStatus = "planning"
	SongPaused   SongStatus = "paused"
)

type TrackCategory string

const (
	CategoryActiveFocus TrackCategory = "active_focus"
	CategoryBackCatalog TrackCategory = "back_catalog"
)

// TaskStatus has no transition rules: any value may follow any other.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskPaused     TaskStatus = "paused"
	TaskNotDone    TaskStatus = "not_done"
	TaskCancelled  TaskStatus = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Channel string

const (
	ChannelYouTube     Channel = "youtube"
	ChannelSpotify     Channel = "spotify"
	ChannelSocialMedia Channel = "social_media"
	ChannelPress       Channel = "press"
	ChannelRadio       Channel = "radio"
	ChannelGeneral     Channel = "general"
)

type ActionStatus string

const (
	ActionPlanned    ActionStatus = "planned"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
	ActionPostponed  ActionStatus = "postponed"
)

type SourceType string

const (
	SourceManual    SourceType = "manual"
	SourceMeeting   SourceType = "meeting"
	SourceTask      SourceType = "task"
	SourceFocusSong SourceType = "focus_song"
)

type HistoryAction string

const (
	HistoryCreated       HistoryAction = "created"
	HistoryUpdated       HistoryAction = "updated"
	HistoryDeleted       HistoryAction = "deleted"
	HistoryStatusChanged HistoryAction = "status_changed"
)

// Entity type names used in history rows and the /api/history route.
const (
	EntityTeamMember     = "team_member"
	EntityMeeting        = "meeting"
	EntityFocusSong      = "focus_song"
	EntityTask           = "task"
	EntityMeetingMinutes = "meeting_minutes"
	EntityDailyMetrics   = "daily_metrics"
	EntityActionItem     = "action_item"
	EntityCalendarAction = "calendar_action"
)
