// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mount attaches component trees to a container node. Every mount is
// a total rebuild: the container's children are dropped and the component's
// fresh tree is appended.
package mount

import (
	"flightbridge/cli/internal/errors"
	"flightbridge/cli/internal/logx"
	"flightbridge/cli/internal/store"
	"flightbridge/cli/internal/ui"
)

// Component builds a fresh tree on every call.
type Component func() *ui.Node

// Flight replaces the children of container with the tree returned by
// component. A nil container is logged and reported as MountTargetMissing;
// nothing is mutated and component is not called. A nil tree leaves the
// container empty.
func Flight(container *ui.Node, component Component) error {
	if container == nil {
		logx.Log.Error().Msg(logx.MsgMountNotFound)
		return errors.New(errors.MountTargetMissing, "target element not found for mounting")
	}
	container.RemoveChildren()
	if component == nil {
		return nil
	}
	if tree := component(); tree != nil {
		container.AppendChild(tree)
	}
	return nil
}

// Bind mounts component into container now and again after every update of
// st. The returned func stops re-mounting.
func Bind(container *ui.Node, st *store.Store, component func(store.State) *ui.Node) (unbind func(), err error) {
	render := func(s store.State) Component {
		return func() *ui.Node { return component(s) }
	}
	if err := Flight(container, render(st.GetState())); err != nil {
		return func() {}, err
	}
	return st.Subscribe(func(s store.State) {
		_ = Flight(container, render(s))
	}), nil
}
