package reddit

import (
	"encoding/json"

	"github.com/fialovy/redditpersona/internal/character"
)

// Reddit's wire format wraps everything in kinded "things". Only the two
// kinds this tool reads are modeled: t1 (comment) and t3 (link/post).
const (
	kindComment = "t1"
	kindLink    = "t3"
)

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
		After    string  `json:"after"`
	} `json:"data"`
}

type thing struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

// thingData is the union of the comment and link fields we consume.
type thingData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"` // fullname, e.g. t1_abc123
	Author     string  `json:"author"`
	Body       string  `json:"body"`      // comments
	Title      string  `json:"title"`     // links
	Selftext   string  `json:"selftext"`  // links
	ParentID   string  `json:"parent_id"` // comments
	LinkID     string  `json:"link_id"`   // comments
	CreatedUTC float64 `json:"created_utc"`
	Score      int     `json:"score"`
}

// rawItem converts a wire thing into the engine's item shape. Returns ok=false
// for kinds the pipeline does not handle.
func (t thing) rawItem() (character.RawItem, bool) {
	fullname := t.Data.Name
	if fullname == "" && t.Data.ID != "" {
		fullname = t.Kind + "_" + t.Data.ID
	}

	item := character.RawItem{
		Fullname:   fullname,
		Author:     t.Data.Author,
		CreatedUTC: int64(t.Data.CreatedUTC),
		Score:      t.Data.Score,
	}

	switch t.Kind {
	case kindComment:
		item.Kind = character.KindComment
		item.Body = t.Data.Body
		item.ParentID = t.Data.ParentID
	case kindLink:
		item.Kind = character.KindPost
		item.Title = t.Data.Title
		item.Body = t.Data.Selftext
	default:
		return character.RawItem{}, false
	}
	return item, true
}

func parseListing(data []byte) (*listing, error) {
	var l listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
