package httpapi

import (
	"net/url"

	"github.com/riskibarqy/goal-archive/internal/usecase"
)

type rankingTableState string

const (
	rankingTableLoading rankingTableState = "loading"
	rankingTableError   rankingTableState = "error"
	rankingTableRows    rankingTableState = "table"
	rankingTableEmpty   rankingTableState = "empty"
)

type rankingEntryDTO struct {
	Key         string `json:"key"`
	Rank        int    `json:"rank"`
	PlayerName  string `json:"player_name"`
	Nationality string `json:"nationality"`
	Clubs       string `json:"clubs"`
	Year        int    `json:"year"`
}

type rankingViewDTO struct {
	ViewID       string            `json:"view_id"`
	Year         int               `json:"year"`
	IsLoading    bool              `json:"is_loading"`
	ErrorMessage *string           `json:"error_message"`
	Rankings     []rankingEntryDTO `json:"rankings"`
}

type rankingPage struct {
	ViewID       string
	Year         int
	State        rankingTableState
	ErrorMessage string
	Rows         []rankingEntryDTO
	PreviousURL  string
	NextURL      string
}

// tableState picks what the ranking table shows. Loading wins over a stale error,
// an error wins over any list.
func tableState(snapshot usecase.RankingSnapshot) rankingTableState {
	switch {
	case snapshot.IsLoading:
		return rankingTableLoading
	case snapshot.ErrorMessage != nil:
		return rankingTableError
	case len(snapshot.Rankings) > 0:
		return rankingTableRows
	default:
		return rankingTableEmpty
	}
}

func rankingEntriesToDTO(snapshot usecase.RankingSnapshot) []rankingEntryDTO {
	if snapshot.Rankings == nil {
		return nil
	}
	out := make([]rankingEntryDTO, 0, len(snapshot.Rankings))
	for _, item := range snapshot.Rankings {
		out = append(out, rankingEntryDTO{
			Key:         item.Key(),
			Rank:        item.Rank,
			PlayerName:  item.PlayerName,
			Nationality: item.Nationality,
			Clubs:       item.Clubs,
			Year:        item.Year,
		})
	}
	return out
}

func rankingViewToDTO(snapshot usecase.RankingSnapshot) rankingViewDTO {
	return rankingViewDTO{
		ViewID:       snapshot.ViewID,
		Year:         snapshot.Year,
		IsLoading:    snapshot.IsLoading,
		ErrorMessage: snapshot.ErrorMessage,
		Rankings:     rankingEntriesToDTO(snapshot),
	}
}

func rankingViewToPage(snapshot usecase.RankingSnapshot) rankingPage {
	page := rankingPage{
		ViewID:      snapshot.ViewID,
		Year:        snapshot.Year,
		State:       tableState(snapshot),
		PreviousURL: rankingViewPath(snapshot.ViewID) + "/previous",
		NextURL:     rankingViewPath(snapshot.ViewID) + "/next",
	}
	switch page.State {
	case rankingTableError:
		page.ErrorMessage = *snapshot.ErrorMessage
	case rankingTableRows:
		page.Rows = rankingEntriesToDTO(snapshot)
	}
	return page
}

func rankingViewPath(viewID string) string {
	return "/bdor/views/" + url.PathEscape(viewID)
}

func rankingViewAPIPath(viewID string) string {
	return "/v1/bdor/views/" + url.PathEscape(viewID)
}
