package deck

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

type boardAPI interface {
	Boards(ctx context.Context) ([]upstreamBoard, error)
	Board(ctx context.Context, boardID int64) (*upstreamBoard, error)
	Stacks(ctx context.Context, boardID int64) ([]upstreamStack, error)
	StackCards(ctx context.Context, boardID, stackID int64) ([]upstreamCard, error)
	CardsDirect(ctx context.Context, boardID, stackID int64) ([]upstreamCard, error)
}

var _ boardAPI = (*Client)(nil)

// Aggregator walks the board → stack → card hierarchy and assembles a
// best-effort snapshot. Partial failures are contained: a broken stack keeps
// zero cards, a board failing every strategy is skipped, and the call only
// fails when the initial board enumeration itself does.
type Aggregator struct {
	client boardAPI
}

func NewAggregator(client boardAPI) *Aggregator {
	return &Aggregator{client: client}
}

// AllTasks aggregates cards across boards. With no ids given, all boards are
// enumerated first.
func (a *Aggregator) AllTasks(ctx context.Context, boardIDs []int64) (*TasksResult, error) {
	result := &TasksResult{
		Boards:    []Board{},
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if len(boardIDs) == 0 {
		allBoards, err := a.client.Boards(ctx)
		if err != nil {
			return nil, err
		}
		for _, b := range allBoards {
			boardIDs = append(boardIDs, b.ID)
		}
		slog.Debug("Enumerated boards", "count", len(boardIDs))
	}

	for _, boardID := range boardIDs {
		board, err := a.processBoardComplete(ctx, boardID)
		if err != nil {
			slog.Warn("Complete-board fetch failed, falling back to stepwise fetch",
				"board_id", boardID, "error", err)

			board, err = a.processBoardStepwise(ctx, boardID)
			if err != nil {
				slog.Warn("Skipping board, both strategies failed", "board_id", boardID, "error", err)
				continue
			}
		}

		result.Boards = append(result.Boards, *board)
		result.TotalCards += board.TotalCards
	}

	slog.Info("Task aggregation complete",
		"boards", len(result.Boards),
		"total_cards", result.TotalCards)

	return result, nil
}

// processBoardComplete uses the single complete-board fetch. Stacks whose
// embedded card list is empty get their cards fetched individually; if that
// fails too, the stack is kept with zero cards.
func (a *Aggregator) processBoardComplete(ctx context.Context, boardID int64) (*Board, error) {
	boardData, err := a.client.Board(ctx, boardID)
	if err != nil {
		return nil, err
	}

	board := &Board{
		ID:     boardData.ID,
		Title:  boardData.Title,
		Color:  boardData.Color,
		Stacks: []Stack{},
	}
	if board.ID == 0 {
		board.ID = boardID
	}
	if board.Title == "" {
		board.Title = "Untitled Board"
	}

	for _, stackData := range boardData.Stacks {
		cards := stackData.Cards
		if len(cards) == 0 {
			fetched, err := a.fetchStackCards(ctx, boardID, stackData.ID)
			if err != nil {
				slog.Warn("Failed to fetch cards for stack",
					"board_id", boardID, "stack_id", stackData.ID, "error", err)
				fetched = nil
			}
			cards = fetched
		}

		stack := normalizeStack(stackData, cards)
		board.Stacks = append(board.Stacks, stack)
		board.TotalCards += len(stack.Cards)
	}

	sortStacks(board.Stacks)
	return board, nil
}

// processBoardStepwise is the fallback sequence: stacks first, then each
// stack's cards through the strategy chain.
func (a *Aggregator) processBoardStepwise(ctx context.Context, boardID int64) (*Board, error) {
	stacks, err := a.client.Stacks(ctx, boardID)
	if err != nil {
		return nil, err
	}

	board := &Board{
		ID:     boardID,
		Title:  "Untitled Board",
		Stacks: []Stack{},
	}

	for _, stackData := range stacks {
		cards, err := a.fetchStackCards(ctx, boardID, stackData.ID)
		if err != nil {
			slog.Warn("Giving up on stack cards",
				"board_id", boardID, "stack_id", stackData.ID, "error", err)
			cards = nil
		}

		stack := normalizeStack(stackData, cards)
		board.Stacks = append(board.Stacks, stack)
		board.TotalCards += len(stack.Cards)
	}

	sortStacks(board.Stacks)
	return board, nil
}

// fetchStackCards tries the known card-retrieval shapes in order until one
// succeeds.
func (a *Aggregator) fetchStackCards(ctx context.Context, boardID, stackID int64) ([]upstreamCard, error) {
	strategies := []func(context.Context, int64, int64) ([]upstreamCard, error){
		a.client.StackCards,
		a.client.CardsDirect,
	}

	var lastErr error
	for _, attempt := range strategies {
		cards, err := attempt(ctx, boardID, stackID)
		if err == nil {
			return cards, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func normalizeStack(stackData upstreamStack, cards []upstreamCard) Stack {
	stack := Stack{
		ID:    stackData.ID,
		Title: stackData.Title,
		Cards: make([]Card, 0, len(cards)),
	}
	if stackData.Order != nil {
		stack.Order = *stackData.Order
	}

	for _, card := range cards {
		stack.Cards = append(stack.Cards, normalizeCard(card))
	}

	sort.SliceStable(stack.Cards, func(i, j int) bool {
		return stack.Cards[i].Order < stack.Cards[j].Order
	})

	return stack
}

// normalizeCard projects an upstream card onto the fixed field set. Absent
// optional fields become defaults, never missing keys.
func normalizeCard(card upstreamCard) Card {
	normalized := Card{
		ID:            card.ID,
		Title:         card.Title,
		DueDate:       card.DueDate,
		Labels:        []Label{},
		AssignedUsers: []json.RawMessage{},
		CreatedAt:     card.CreatedAt,
		LastModified:  card.LastModified,
		Type:          "plain",
	}

	if card.Description != nil {
		normalized.Description = *card.Description
	}
	if card.Labels != nil {
		normalized.Labels = card.Labels
	}
	if card.AssignedUsers != nil {
		normalized.AssignedUsers = card.AssignedUsers
	}
	if card.Archived != nil {
		normalized.Archived = *card.Archived
	}
	if card.Done != nil {
		normalized.Done = *card.Done
	}
	if card.Order != nil {
		normalized.Order = *card.Order
	}
	if card.Type != nil && *card.Type != "" {
		normalized.Type = *card.Type
	}

	return normalized
}

func sortStacks(stacks []Stack) {
	sort.SliceStable(stacks, func(i, j int) bool {
		return stacks[i].Order < stacks[j].Order
	})
}
