// Package unisattest provides an in-process marketplace double that checks
// request signatures the way the real API does.
package unisattest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/kurumiimari/unimint/unisat"
)

const DefaultTimestamp = "1727712000.123"

type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type Server struct {
	*httptest.Server

	mtx        sync.Mutex
	timestamp  string
	configBody string
	runes      map[string]*unisat.RuneInfo
	order      *unisat.Order
	requests   []*Request
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		timestamp:  DefaultTimestamp,
		configBody: `{"code":0,"msg":"ok","data":{"version":"285"}}`,
		runes:      make(map[string]*unisat.RuneInfo),
		order: &unisat.Order{
			OrderID:    "O1",
			PayAddress: "addr1",
			Amount:     1000,
		},
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/ts2", s.handleTimestamp).Methods(http.MethodGet)

	signed := r.NewRoute().Subrouter()
	signed.Use(s.verify)
	signed.HandleFunc("/basic-v4/config", s.handleConfig).Methods(http.MethodGet)
	signed.HandleFunc("/basic-v4/base/preload", s.handlePreload).Methods(http.MethodGet)
	signed.HandleFunc("/query-v4/runes/{name}/info", s.handleRuneInfo).Methods(http.MethodGet)
	signed.HandleFunc("/inscribe-v5/order/create", s.handleOrder).Methods(http.MethodPost)
	signed.HandleFunc("/inscribe-v5/order/create/runes-mint", s.handleOrder).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetTimestamp changes the timestamp handed out by ts2 and expected in
// signatures from then on.
func (s *Server) SetTimestamp(ts string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.timestamp = ts
}

func (s *Server) SetConfigBody(body string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.configBody = body
}

func (s *Server) AddRune(name string, info *unisat.RuneInfo) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.runes[name] = info
}

// SetOrder sets the order data returned by both order endpoints. A nil
// order makes them answer with null data.
func (s *Server) SetOrder(order *unisat.Order) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.order = order
}

func (s *Server) state() (string, string, *unisat.Order) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.timestamp, s.configBody, s.order
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []*Request {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	out := make([]*Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit path.
func (s *Server) Count(path string) int {
	var n int
	for _, req := range s.Requests() {
		if req.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mtx.Lock()
		s.requests = append(s.requests, &Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mtx.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query, hasQuery, err := s.signedQuery(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, `{"code":-1,"msg":"bad request"}`)
			return
		}

		ts, _, _ := s.state()
		canonical := unisat.CanonicalString(r.URL.Path, hasQuery, query, ts, unisat.SignatureMagic)
		sign := unisat.Digest(canonical)
		ok := r.Header.Get(unisat.HeaderSign) == sign &&
			r.Header.Get(unisat.HeaderTimestamp) == ts &&
			r.Header.Get(unisat.HeaderAppID) == unisat.AppID &&
			unisat.VerifyToken(r.Header.Get(unisat.HeaderToken), sign)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, `{"code":-1,"msg":"invalid sign"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// signedQuery rebuilds the query part of the canonical string: the raw
// query for GETs, the JSON body's fields in wire order for POSTs.
func (s *Server) signedQuery(r *http.Request) (string, bool, error) {
	if r.Method == http.MethodGet {
		return r.URL.RawQuery, r.URL.RawQuery != "", nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", false, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	fields, err := orderedFields(body)
	if err != nil {
		return "", false, err
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = url.QueryEscape(f.key) + "=" + url.QueryEscape(f.text())
	}
	return strings.Join(parts, "&"), len(parts) > 0, nil
}

type field struct {
	key string
	raw json.RawMessage
}

func (f field) text() string {
	var s string
	if err := json.Unmarshal(f.raw, &s); err == nil {
		return s
	}
	return string(f.raw)
}

func orderedFields(body []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: tok.(string), raw: raw})
	}
	return fields, nil
}

func (s *Server) handleTimestamp(w http.ResponseWriter, r *http.Request) {
	ts, _, _ := s.state()
	res, _ := json.Marshal(map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": map[string]string{"ts": ts},
	})
	writeJSON(w, http.StatusOK, string(res))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	_, body, _ := s.state()
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePreload(w http.ResponseWriter, r *http.Request) {
	res, _ := json.Marshal(map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": map[string]string{"address": r.URL.Query().Get("address")},
	})
	writeJSON(w, http.StatusOK, string(res))
}

func (s *Server) handleRuneInfo(w http.ResponseWriter, r *http.Request) {
	s.mtx.Lock()
	info := s.runes[mux.Vars(r)["name"]]
	s.mtx.Unlock()
	res, _ := json.Marshal(map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": info,
	})
	writeJSON(w, http.StatusOK, string(res))
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	_, _, order := s.state()
	res, _ := json.Marshal(map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": order,
	})
	writeJSON(w, http.StatusOK, string(res))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
