// Package mock provides a controllable implementation of ric.Engine
// for testing purposes.
//
// It is built on testify/mock, so expectations are declared per engine call
// and verified with AssertExpectations.
//
// Usage:
//
//	m := mock.New()
//	m.On("ListImages", mock.Anything).Return([]ric.Image{{RepoTags: []string{"debian:latest"}}}, nil)
//	// pass 'm' to ric.NewRunner
//
// Stream helpers (Frames, Stream) build multiplexed output the way the engine sends it.
package mock
