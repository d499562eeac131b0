package deck

import (
	"github.com/goccy/go-json"
)

// Upstream shapes. Optional fields stay pointers so the aggregator can tell
// "absent" from zero values before normalization fills defaults.

type upstreamBoard struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Color  *string         `json:"color"`
	Stacks []upstreamStack `json:"stacks"`
}

type upstreamStack struct {
	ID    int64          `json:"id"`
	Title string         `json:"title"`
	Order *int           `json:"order"`
	Cards []upstreamCard `json:"cards"`
}

type upstreamCard struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   *string           `json:"description"`
	DueDate       *string           `json:"duedate"`
	Labels        []Label           `json:"labels"`
	AssignedUsers []json.RawMessage `json:"assignedUsers"`
	CreatedAt     *int64            `json:"createdAt"`
	LastModified  *int64            `json:"lastModified"`
	Archived      *bool             `json:"archived"`
	Done          *bool             `json:"done"`
	Order         *int              `json:"order"`
	Type          *string           `json:"type"`
}

// Normalized snapshot types served to the dashboard. Every optional upstream
// field is projected to a defined value so keys are never missing downstream.

type Label struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

type Card struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	DueDate       *string           `json:"duedate"`
	Labels        []Label           `json:"labels"`
	AssignedUsers []json.RawMessage `json:"assignedUsers"`
	CreatedAt     *int64            `json:"createdAt"`
	LastModified  *int64            `json:"lastModified"`
	Archived      bool              `json:"archived"`
	Done          bool              `json:"done"`
	Order         int               `json:"order"`
	Type          string            `json:"type"`
}

type Stack struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Cards []Card `json:"cards"`
}

type Board struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Color      *string `json:"color"`
	Stacks     []Stack `json:"stacks"`
	TotalCards int     `json:"total_cards"`
}

// TasksResult is the aggregated read-only snapshot of all processed boards.
type TasksResult struct {
	Boards     []Board `json:"boards"`
	TotalCards int     `json:"total_cards"`
	FetchedAt  string  `json:"fetched_at"`
}
