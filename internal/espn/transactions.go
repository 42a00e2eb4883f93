package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

const (
	transactionPageSize = 25
	transactionMaxPages = 8
)

// ESPN activity message type ids. A topic groups the messages of one
// transaction; each message is one player movement.
const (
	msgAddFreeAgent = 178
	msgDropByOwner  = 179
	msgAddWaiver    = 180
	msgDropWaiver   = 181
	msgDropTrade    = 239
	msgTradeAccept  = 244
)

func transactionType(messageTypeID int) (kind string, added bool, ok bool) {
	switch messageTypeID {
	case msgAddFreeAgent:
		return "add", true, true
	case msgAddWaiver:
		return "waiver", true, true
	case msgDropByOwner, msgDropWaiver, msgDropTrade:
		return "drop", false, true
	case msgTradeAccept:
		return "trade", true, true
	}
	return "", false, false
}

type commMessage struct {
	ID              int             `json:"id"`
	MessageTypeID   int             `json:"messageTypeId"`
	ScoringPeriodID int             `json:"scoringPeriodId"`
	MatchupPeriodID int             `json:"matchupPeriodId"`
	TargetID        int             `json:"targetId"`
	To              int             `json:"to"`
	For             int             `json:"for"`
	From            json.RawMessage `json:"from"`
}

type commTopic struct {
	ID              string        `json:"id"`
	Date            int64         `json:"date"`
	ScoringPeriodID int           `json:"scoringPeriodId"`
	MatchupPeriodID int           `json:"matchupPeriodId"`
	Messages        []commMessage `json:"messages"`
}

// bidAmount reads the waiver bid from the message "from" field, which ESPN
// overloads: a number for FAAB bids, a team id or null otherwise.
func (m *commMessage) bidAmount() (int, bool) {
	if m.MessageTypeID != msgAddWaiver || len(m.From) == 0 {
		return 0, false
	}
	var bid int
	if err := json.Unmarshal(m.From, &bid); err != nil {
		return 0, false
	}
	return bid, true
}

// week resolves the scoring period for a message, preferring the message's
// own fields over the enclosing topic's.
func (m *commMessage) week(topic *commTopic) int {
	switch {
	case m.ScoringPeriodID > 0:
		return m.ScoringPeriodID
	case m.MatchupPeriodID > 0:
		return m.MatchupPeriodID
	case topic.ScoringPeriodID > 0:
		return topic.ScoringPeriodID
	default:
		return topic.MatchupPeriodID
	}
}

func transactionFilter(offset int) string {
	return fmt.Sprintf(`{"topics":{"filterType":{"value":["ACTIVITY_TRANSACTIONS"]},"limit":%d,"limitPerMessageSet":{"value":%d},"offset":%d,"sortMessageDate":{"sortPriority":1,"sortAsc":false},"filterIncludeMessageTypeIds":{"value":[%d,%d,%d,%d,%d,%d]}}}`,
		transactionPageSize, transactionPageSize, offset,
		msgAddFreeAgent, msgDropByOwner, msgAddWaiver, msgDropWaiver, msgDropTrade, msgTradeAccept)
}

type transaction struct {
	ID             string   `json:"transactionId"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	Week           int      `json:"week"`
	Date           int64    `json:"date"`
	TeamIDs        []string `json:"teamIds"`
	PlayersAdded   []any    `json:"playersAdded"`
	PlayersDropped []any    `json:"playersDropped"`
	FAABBid        *int     `json:"faabBid,omitempty"`
}

// transactionStatus maps a message type to a lifecycle status. The activity
// feed only reports moves that already went through; pending waiver claims
// never show up there.
func transactionStatus(messageTypeID int) string {
	switch messageTypeID {
	case msgAddFreeAgent, msgDropByOwner, msgAddWaiver, msgDropWaiver, msgDropTrade, msgTradeAccept:
		return "complete"
	}
	return "unknown"
}

// teamIDs collects the distinct team ids a message involves. Trades carry
// both sides in "to" and "for"; single-team moves usually set just one.
func (m *commMessage) teamIDs() []string {
	var ids []string
	if m.To > 0 {
		ids = append(ids, strconv.Itoa(m.To))
	}
	if m.For > 0 && m.For != m.To {
		ids = append(ids, strconv.Itoa(m.For))
	}
	return ids
}

func (a *Adapter) handleTransactions(ctx context.Context, c *call) platform.Result {
	if denied := c.requireCreds(); denied != nil {
		return *denied
	}

	weeks, mode, result := a.resolveWeekWindow(ctx, c)
	if result != nil {
		return *result
	}
	inWindow := func(week int) bool {
		if len(weeks) == 0 {
			return true
		}
		for _, w := range weeks {
			if week == w {
				return true
			}
		}
		return false
	}
	explicitWeek := c.params.Week > 0

	query := url.Values{}
	query.Set("view", "kona_league_communication")
	path := LeaguePath(c.platformYear, c.leagueID) + "/communication/"

	seen := map[int]bool{}
	var txns []*transaction

	for page := 0; page < transactionMaxPages; page++ {
		var payload struct {
			Topics []commTopic `json:"topics"`
		}
		err := a.client.GetJSON(ctx, Request{
			Sport:        c.sport,
			Path:         path,
			Query:        query,
			Filter:       transactionFilter(page * transactionPageSize),
			Creds:        c.creds,
			RequireCreds: true,
		}, &payload)
		if err != nil {
			if len(txns) > 0 {
				break
			}
			return failFrom(err)
		}

		for ti := range payload.Topics {
			topic := &payload.Topics[ti]
			for mi := range topic.Messages {
				msg := &topic.Messages[mi]
				if seen[msg.ID] {
					continue
				}
				seen[msg.ID] = true

				kind, added, ok := transactionType(msg.MessageTypeID)
				if !ok {
					continue
				}
				week := msg.week(topic)
				if week == 0 && explicitWeek {
					continue
				}
				if week > 0 && !inWindow(week) {
					continue
				}
				if c.params.Type != "" && c.params.Type != kind {
					continue
				}

				t := &transaction{
					ID:             strconv.Itoa(msg.ID),
					Type:           kind,
					Status:         transactionStatus(msg.MessageTypeID),
					Week:           week,
					Date:           topic.Date,
					TeamIDs:        msg.teamIDs(),
					PlayersAdded:   []any{},
					PlayersDropped: []any{},
				}
				if added {
					t.PlayersAdded = append(t.PlayersAdded, msg.TargetID)
				} else {
					t.PlayersDropped = append(t.PlayersDropped, msg.TargetID)
				}
				if bid, ok := msg.bidAmount(); ok {
					t.FAABBid = &bid
				}
				txns = append(txns, t)
			}
		}

		if len(payload.Topics) < transactionPageSize {
			break
		}
	}

	a.enrichTransactions(ctx, c, txns)

	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date > txns[j].Date })

	return platform.OK(map[string]any{
		"platform":   platform.ESPN,
		"sport":      c.sport,
		"leagueId":   c.leagueID,
		"seasonYear": c.canonicalYear,
		"window": map[string]any{
			"mode":  mode,
			"weeks": weeks,
		},
		"transactions": txns,
	})
}

// resolveWeekWindow returns the weeks to include. Explicit week wins; with no
// week the window is the latest scoring period and the one before it.
func (a *Adapter) resolveWeekWindow(ctx context.Context, c *call) ([]int, string, *platform.Result) {
	if c.params.Week > 0 {
		return []int{c.params.Week}, "specific_week", nil
	}
	settings, err := a.fetchSettings(ctx, c)
	if err != nil {
		r := failFrom(err)
		return nil, "", &r
	}
	latest := settings.Status.LatestScoringPeriod
	if latest <= 1 {
		return []int{1}, "recent_two_weeks", nil
	}
	return []int{latest, latest - 1}, "recent_two_weeks", nil
}

// enrichTransactions swaps raw player ids for {id, name} objects. Failures
// leave the ids in place; enrichment is best effort.
func (a *Adapter) enrichTransactions(ctx context.Context, c *call, txns []*transaction) {
	idSet := map[int]bool{}
	for _, t := range txns {
		for _, v := range t.PlayersAdded {
			if id, ok := v.(int); ok {
				idSet[id] = true
			}
		}
		for _, v := range t.PlayersDropped {
			if id, ok := v.(int); ok {
				idSet[id] = true
			}
		}
	}
	if len(idSet) == 0 {
		return
	}
	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	players, err := a.players.FetchByIDs(ctx, c.sport, c.canonicalYear, ids, c.creds)
	if err != nil {
		pkgLogger().Warn("transaction enrichment failed", "sport", c.sport, "err", err)
		return
	}

	describe := func(raw []any) []any {
		out := make([]any, 0, len(raw))
		for _, v := range raw {
			id, ok := v.(int)
			if !ok {
				out = append(out, v)
				continue
			}
			if p, found := players[id]; found {
				out = append(out, map[string]any{
					"playerId": id,
					"name":     p.FullName,
					"position": c.maps.PositionName(c.sport, p.DefaultPositionID),
					"proTeam":  c.maps.ProTeamName(p.ProTeamID),
				})
			} else {
				out = append(out, map[string]any{"playerId": id})
			}
		}
		return out
	}
	for _, t := range txns {
		t.PlayersAdded = describe(t.PlayersAdded)
		t.PlayersDropped = describe(t.PlayersDropped)
	}
}
