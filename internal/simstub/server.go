package simstub

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"drivesim.dev/internal/protocol"
)

// Server exposes a World over the simulator wire protocol. Each connection is
// handled strictly request/response, matching the synchronous session the
// smoke harness requires.
type Server struct {
	world *World
	log   *log.Logger

	upgrader websocket.Upgrader
	sessions atomic.Uint64
}

func NewServer(w *World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		session, ok := s.handshake(conn)
		if !ok {
			return
		}
		s.log.Printf("session %s connected", session)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeReq {
				continue
			}
			var req protocol.ReqMsg
			resp := protocol.RespMsg{
				Type:            protocol.TypeResp,
				ProtocolVersion: protocol.Version,
			}
			if err := json.Unmarshal(msg, &req); err != nil {
				resp.Code = protocol.ErrProtoBadRequest
				resp.Message = err.Error()
			} else {
				resp = s.dispatch(req)
			}
			if err := writeJSON(conn, resp); err != nil {
				break
			}
		}

		s.log.Printf("session %s closed", session)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	_ = conn.SetReadDeadline(time.Time{})
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", false
	}

	session := fmt.Sprintf("S%d", s.sessions.Add(1))
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       session,
		WorldParams: protocol.WorldParams{
			MapName:     s.world.MapName(),
			TickSeconds: s.world.TickSeconds(),
			Synchronous: true,
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", false
	}
	return session, true
}

func (s *Server) dispatch(req protocol.ReqMsg) protocol.RespMsg {
	resp := protocol.RespMsg{
		Type:            protocol.TypeResp,
		ProtocolVersion: protocol.Version,
		ID:              req.ID,
	}

	result, err := s.handle(req.Cmd, req.Params)
	if err != nil {
		var ce *codeError
		switch e := err.(type) {
		case *codeError:
			ce = e
		default:
			ce = &codeError{code: protocol.ErrInternal, msg: err.Error()}
		}
		resp.Code = ce.Code()
		resp.Message = ce.Error()
		return resp
	}

	resp.OK = true
	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			resp.OK = false
			resp.Code = protocol.ErrInternal
			resp.Message = err.Error()
			return resp
		}
		resp.Result = raw
	}
	return resp
}

func (s *Server) handle(cmd string, raw json.RawMessage) (any, error) {
	decode := func(v any) error {
		if len(raw) == 0 {
			return errCode(protocol.ErrProtoBadRequest, "%s: missing params", cmd)
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return errCode(protocol.ErrProtoBadRequest, "%s: bad params: %v", cmd, err)
		}
		return nil
	}

	switch cmd {
	case protocol.CmdLoadWorld:
		var p protocol.LoadWorldParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		tick, err := s.world.LoadWorld(p.Map)
		if err != nil {
			return nil, err
		}
		return protocol.LoadWorldResult{Map: p.Map, Tick: tick}, nil

	case protocol.CmdBlueprints:
		var p protocol.BlueprintsParams
		if len(raw) > 0 {
			if err := decode(&p); err != nil {
				return nil, err
			}
		}
		return protocol.BlueprintsResult{Blueprints: s.world.Blueprints(p.Pattern)}, nil

	case protocol.CmdSpawnActor:
		var p protocol.SpawnActorParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		id, err := s.world.Spawn(p.BlueprintID, p.Attributes, p.Transform)
		if err != nil {
			return nil, err
		}
		return protocol.SpawnActorResult{ActorID: id}, nil

	case protocol.CmdDestroyActor:
		var p protocol.ActorParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, s.world.Destroy(p.ActorID)

	case protocol.CmdTick:
		return protocol.TickResult{Tick: s.world.Tick()}, nil

	case protocol.CmdGetTransform:
		var p protocol.ActorParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		tf, err := s.world.Transform(p.ActorID)
		if err != nil {
			return nil, err
		}
		return protocol.TransformResult{Transform: tf}, nil

	case protocol.CmdGetVelocity:
		var p protocol.ActorParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		v, err := s.world.Velocity(p.ActorID)
		if err != nil {
			return nil, err
		}
		return protocol.VelocityResult{Velocity: v}, nil

	case protocol.CmdSetTargetVelocity:
		var p protocol.SetTargetVelocityParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, s.world.SetTargetVelocity(p.ActorID, p.Velocity)

	case protocol.CmdSetEnableGravity:
		var p protocol.SetEnableGravityParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, s.world.SetEnableGravity(p.ActorID, p.Enabled)

	case protocol.CmdApplyControl:
		var p protocol.ApplyControlParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, s.world.ApplyControl(p.ActorID, p.Control)

	case protocol.CmdGetPhysicsControl:
		var p protocol.ActorParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		c, err := s.world.PhysicsControl(p.ActorID)
		if err != nil {
			return nil, err
		}
		return protocol.PhysicsControlResult{Control: c}, nil

	case protocol.CmdApplyPhysicsControl:
		var p protocol.ApplyPhysicsControlParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return nil, s.world.ApplyPhysicsControl(p.ActorID, p.Control)

	case protocol.CmdDebugDraw:
		var p protocol.DebugDrawParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		// Headless: acknowledged, nothing rendered.
		return nil, nil

	default:
		return nil, errCode(protocol.ErrBadRequest, "unknown command %q", cmd)
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
