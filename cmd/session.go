// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"flightbridge/cli/internal/bridge"
	"flightbridge/cli/internal/bridge/grpcclient"
	"flightbridge/cli/internal/bridge/httpclient"
	"flightbridge/cli/internal/config"
	"flightbridge/cli/internal/endpoint"
	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/profile"
	"flightbridge/cli/internal/transport"
)

// settings is the loaded CLI configuration, set by the root pre-run hook.
var settings = config.Defaults()

// session is the connection state shared by the commands of one invocation.
type session struct {
	holder *transport.Holder
	bridge *bridge.Bridge
	kind   string
	close  func() error
}

var current *session

// openSession builds the holder and transport once per process. The endpoint
// is taken from --endpoint, then the config file, then the loader-derived
// default. A saved profile is replayed unless --no-profile is set.
func openSession() *session {
	if current != nil {
		return current
	}
	def := firstNonEmpty(flagEndpoint, settings.Endpoint)
	if def == "" {
		def = endpoint.FromEnvironment()
	}
	h := transport.NewHolder(def)
	if !flagNoProfile {
		replayProfile(h)
	}
	if flagEndpoint != "" {
		h.Connect(h.Snapshot().Params, flagEndpoint)
	}

	kind := strings.ToLower(firstNonEmpty(flagTransport, settings.Transport))
	timeout := settings.Timeout()
	if flagTimeout > 0 {
		timeout = flagTimeout
	}

	s := &session{holder: h, kind: kind, close: func() error { return nil }}
	switch kind {
	case config.TransportGRPC:
		t := grpcclient.New()
		s.bridge = bridge.New(h, t)
		s.close = t.Close
	default:
		s.kind = config.TransportHTTP
		s.bridge = bridge.New(h, httpclient.New(timeout, httpclient.WithUserAgent("flight-cli/"+Version)))
	}
	logx.Log.Debug().Str("transport", s.kind).Str("endpoint", h.Snapshot().Endpoint).Msg("session opened")
	current = s
	return s
}

func replayProfile(h *transport.Holder) {
	st, err := profile.Default()
	if err != nil {
		logx.Log.Debug().Err(err).Msg("keychain unavailable, no profile loaded")
		return
	}
	p, err := st.Load()
	if err != nil {
		logx.Log.Warn().Err(err).Msg("saved profile ignored")
		return
	}
	p.Apply(h)
}

func closeSession() {
	if current == nil {
		return
	}
	if err := current.close(); err != nil {
		logx.Log.Debug().Err(err).Msg("transport close")
	}
	current = nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
