// Package service provides the business logic layer for the robot grid world.
//
// The service package implements:
//   - Multi-session robot management
//   - Scenario loading and listing
//   - Single operation calls and operation programs
//   - Session lifecycle management
//   - Action event history
//
// Core Interfaces:
//
// RobotService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ScenarioManager loads, lists and saves scenarios.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Each session owns its own engine built from a copy of the
// scenario, so sessions never share live state. Engine failures (illegal
// moves, exhausted action budget, bad calls) are reported inside results;
// only lookup failures are returned as errors.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr, _ := config.NewManager("scenarios")
//	robotService := service.NewRobotService(sessionMgr, scenarioMgr, engine.DefaultActionLimit)
//
//	info, err := robotService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := robotService.Call(ctx, info.ID, "right", false)
package service
