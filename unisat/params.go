package unisat

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EmptyQuery is what the marketplace front-end produces when asked to
// encode a parameter set that renders to nothing.
const EmptyQuery = "undefined"

// Params is an insertion-ordered parameter set. The same value feeds the
// signed canonical string and the request itself (query string for GETs,
// JSON body for POSTs), so the two can never drift apart.
type Params struct {
	m *orderedmap.OrderedMap[string, interface{}]
}

func NewParams() *Params {
	return &Params{
		m: orderedmap.New[string, interface{}](),
	}
}

// Set appends key, or replaces its value in place if already present.
func (p *Params) Set(key string, value interface{}) *Params {
	p.m.Set(key, value)
	return p
}

func (p *Params) Get(key string) (interface{}, bool) {
	if p == nil {
		return nil, false
	}
	return p.m.Get(key)
}

func (p *Params) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

func (p *Params) Keys() []string {
	if p.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Encode form-encodes the set in insertion order. Keys are never sorted.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return EmptyQuery
	}

	var sb strings.Builder
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pair.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(formatParam(pair.Value)))
	}
	return sb.String()
}

func (p *Params) MarshalJSON() ([]byte, error) {
	if p.Len() == 0 {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}

func formatParam(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		// nested values travel as compact JSON
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
