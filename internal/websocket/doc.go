// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package websocket serves a live feed of recommendation lifecycle events
// to dashboard clients over gorilla/websocket.
//
// The Hub subscribes to every event-bus topic and fans each event out as a
// Message{type: <topic>, data: <event>}. It runs as a supervised service;
// each Client has a read pump (pings, disconnect detection) and a write
// pump (delivery, keepalive). Clients that fall behind are dropped rather
// than slowing the bus.
package websocket
