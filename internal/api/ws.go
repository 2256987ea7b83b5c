package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/prtriage/internal/diff"
	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgLoadDiff    = "load_diff"
	wsMsgAgentResult = "agent_result"
	wsMsgFinish      = "finish"
)

// WebSocket message types to client.
const (
	wsMsgPlan   = "plan"
	wsMsgAck    = "ack"
	wsMsgReport = "report"
	wsMsgError  = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsLoadDiff is the payload for "load_diff" messages.
type wsLoadDiff struct {
	Diff   string   `json:"diff"`
	Roster []string `json:"roster,omitempty"`
}

// wsAck confirms receipt of one agent's results.
type wsAck struct {
	Agent    string `json:"agent"`
	Findings int    `json:"findings"`
	Received int    `json:"received"` // distinct agents so far
}

// triageSession holds the state for a WebSocket triage session.
type triageSession struct {
	plan    *pipeline.Plan
	results []model.AgentResult
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	session := &triageSession{}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgLoadDiff:
			s.handleWSLoadDiff(conn, session, msg.Data)
		case wsMsgAgentResult:
			handleWSAgentResult(conn, session, msg.Data)
		case wsMsgFinish:
			s.handleWSFinish(conn, session)
		default:
			sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) handleWSLoadDiff(conn *websocket.Conn, session *triageSession, data json.RawMessage) {
	var req wsLoadDiff
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid load_diff data")
		return
	}

	ds, err := diff.Parse(req.Diff)
	if err != nil {
		sendWSError(conn, "parsing diff: "+err.Error())
		return
	}

	roster := req.Roster
	if len(roster) == 0 {
		roster = s.opts.Roster
	}

	plan, err := pipeline.MakePlan(ds.Changed(), roster)
	if err != nil {
		sendWSError(conn, err.Error())
		return
	}

	session.plan = plan
	session.results = nil

	sendWSMessage(conn, wsMsgPlan, plan)
}

func handleWSAgentResult(conn *websocket.Conn, session *triageSession, data json.RawMessage) {
	if session.plan == nil {
		sendWSError(conn, "no diff loaded")
		return
	}

	var result model.AgentResult
	if err := json.Unmarshal(data, &result); err != nil {
		sendWSError(conn, "invalid agent_result data")
		return
	}
	if result.Agent == "" {
		sendWSError(conn, "agent name is required")
		return
	}

	session.results = append(session.results, result)

	agents := make(map[string]bool)
	for _, r := range session.results {
		agents[r.Agent] = true
	}
	sendWSMessage(conn, wsMsgAck, wsAck{
		Agent:    result.Agent,
		Findings: len(result.Findings),
		Received: len(agents),
	})
}

func (s *Server) handleWSFinish(conn *websocket.Conn, session *triageSession) {
	if session.plan == nil {
		sendWSError(conn, "no diff loaded")
		return
	}

	combined := pipeline.Combine(session.results, pipeline.CombineOptions{
		Matcher:      s.opts.Matcher,
		MaxResultAge: s.opts.MaxResultAge,
	})
	sendWSMessage(conn, wsMsgReport, combined)
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
