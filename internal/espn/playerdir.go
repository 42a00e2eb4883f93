package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// directoryTTL is the only long-lived state the core owns: a coarse per-sport
// player directory refreshed daily. Entries are immutable within the TTL;
// concurrent writers race benignly (last writer wins).
const directoryTTL = 24 * time.Hour

// DirectoryPlayer is the narrow projection kept per player.
type DirectoryPlayer struct {
	ID                int     `json:"id"`
	FullName          string  `json:"fullName"`
	DefaultPositionID int     `json:"defaultPositionId"`
	ProTeamID         int     `json:"proTeamId"`
	PercentOwned      float64 `json:"percentOwned"`
}

// PlayerDirectory loads the global player list for a (sport, season) pair,
// caching it in redis. Any cache failure degrades to a direct fetch with no
// persistence; the tool path never fails because redis is down.
type PlayerDirectory struct {
	client *Client
	rdb    *redis.Client
}

func NewPlayerDirectory(client *Client, rdb *redis.Client) *PlayerDirectory {
	return &PlayerDirectory{client: client, rdb: rdb}
}

func directoryKey(sport string, canonicalYear int) string {
	return fmt.Sprintf("espn:players:%s:%d", sport, canonicalYear)
}

// Load returns the player directory for a sport and canonical season year.
func (d *PlayerDirectory) Load(ctx context.Context, sport string, canonicalYear int, creds *Credentials) (map[int]DirectoryPlayer, error) {
	key := directoryKey(sport, canonicalYear)

	if d.rdb != nil {
		raw, err := d.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var cached map[int]DirectoryPlayer
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			pkgLogger().Warn("player directory cache read failed", "sport", sport, "err", err)
		}
	}

	players, err := d.fetch(ctx, sport, canonicalYear, creds)
	if err != nil {
		return nil, err
	}

	if d.rdb != nil {
		if raw, jsonErr := json.Marshal(players); jsonErr == nil {
			if err := d.rdb.Set(ctx, key, raw, directoryTTL).Err(); err != nil {
				pkgLogger().Warn("player directory cache write failed", "sport", sport, "err", err)
			}
		}
	}
	return players, nil
}

func (d *PlayerDirectory) fetch(ctx context.Context, sport string, canonicalYear int, creds *Credentials) (map[int]DirectoryPlayer, error) {
	platformYear := ToPlatformYear(canonicalYear, sport)

	query := url.Values{}
	query.Set("view", "players_wl")
	filter := `{"filterActive":{"value":true}}`

	var raw []struct {
		ID                int     `json:"id"`
		FullName          string  `json:"fullName"`
		DefaultPositionID int     `json:"defaultPositionId"`
		ProTeamID         int     `json:"proTeamId"`
		Ownership         struct {
			PercentOwned float64 `json:"percentOwned"`
		} `json:"ownership"`
	}
	err := d.client.GetJSON(ctx, Request{
		Sport:  sport,
		Path:   PlayersPath(platformYear),
		Query:  query,
		Filter: filter,
		Creds:  creds,
	}, &raw)
	if err != nil {
		return nil, err
	}

	players := make(map[int]DirectoryPlayer, len(raw))
	for _, p := range raw {
		players[p.ID] = DirectoryPlayer{
			ID:                p.ID,
			FullName:          p.FullName,
			DefaultPositionID: p.DefaultPositionID,
			ProTeamID:         p.ProTeamID,
			PercentOwned:      p.Ownership.PercentOwned,
		}
	}
	return players, nil
}

// FetchByIDs resolves specific player ids without touching the cache. Used
// for best-effort transaction enrichment.
func (d *PlayerDirectory) FetchByIDs(ctx context.Context, sport string, canonicalYear int, ids []int, creds *Credentials) (map[int]DirectoryPlayer, error) {
	if len(ids) == 0 {
		return map[int]DirectoryPlayer{}, nil
	}
	platformYear := ToPlatformYear(canonicalYear, sport)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	filter := fmt.Sprintf(`{"filterIds":{"value":[%s]}}`, strings.Join(parts, ","))

	query := url.Values{}
	query.Set("view", "players_wl")

	var raw []struct {
		ID                int    `json:"id"`
		FullName          string `json:"fullName"`
		DefaultPositionID int    `json:"defaultPositionId"`
		ProTeamID         int    `json:"proTeamId"`
	}
	err := d.client.GetJSON(ctx, Request{
		Sport:  sport,
		Path:   PlayersPath(platformYear),
		Query:  query,
		Filter: filter,
		Creds:  creds,
	}, &raw)
	if err != nil {
		return nil, err
	}

	players := make(map[int]DirectoryPlayer, len(raw))
	for _, p := range raw {
		players[p.ID] = DirectoryPlayer{
			ID:                p.ID,
			FullName:          p.FullName,
			DefaultPositionID: p.DefaultPositionID,
			ProTeamID:         p.ProTeamID,
		}
	}
	return players, nil
}
