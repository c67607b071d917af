package models

// Content contexts sent to the recommendation endpoint. These match the
// content service's API contract.
const (
	ContextPreReminder       = "pre_reminder"
	ContextScheduleStart     = "schedule_start"
	ContextInProgress        = "in_progress"
	ContextScheduleCompleted = "schedule_completed"
)

// ContentRequest is the request body for the personalized-content endpoint
type ContentRequest struct {
	ActivityName string `json:"activityName"`
	Context      string `json:"context"`
}

// ContentResponse is the personalized-content endpoint's response
type ContentResponse struct {
	Recommendation string `json:"recommendation"`
}

// NewsResponse is the news-lookup endpoint's response. HasNews=false is
// a legitimate negative result, not a failure.
type NewsResponse struct {
	HasNews   bool   `json:"hasNews"`
	Headline  string `json:"headline,omitempty"`
	Content   string `json:"content,omitempty"`
	Source    string `json:"source,omitempty"`
	Relevance string `json:"relevance,omitempty"`
}

// VideoRecommendation is one entry from the video-recommendation endpoint
type VideoRecommendation struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Duration string `json:"duration"`
}

// VideoResponse is the video-recommendation endpoint's response. Only
// the first entry is used.
type VideoResponse struct {
	Recommendations []VideoRecommendation `json:"recommendations"`
}
