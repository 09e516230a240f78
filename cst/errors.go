// Copyright 2024 The EURE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cst

import "fmt"

// ConstructErrorKind discriminates the ways view construction can fail.
type ConstructErrorKind int

const (
	_ ConstructErrorKind = iota
	UnexpectedEndOfChildren
	NodeIdNotFound
	UnexpectedNodeData
	UnexpectedExtraNode
)

func (k ConstructErrorKind) String() string {
	switch k {
	case UnexpectedEndOfChildren:
		return "UnexpectedEndOfChildren"
	case NodeIdNotFound:
		return "NodeIdNotFound"
	case UnexpectedNodeData:
		return "UnexpectedNodeData"
	case UnexpectedExtraNode:
		return "UnexpectedExtraNode"
	default:
		return "Unknown"
	}
}

// ConstructError is raised by view construction (collect_nodes and the
// handle constructors built on it) when a node's children do not match
// its grammar rule's shape.
type ConstructError struct {
	Kind   ConstructErrorKind
	Parent CstNodeId
	Node   CstNodeId
	Data   CstNode
}

func (e *ConstructError) Error() string {
	switch e.Kind {
	case UnexpectedEndOfChildren:
		return fmt.Sprintf("cst: unexpected end of children for parent %d", e.Parent)
	case NodeIdNotFound:
		return fmt.Sprintf("cst: node id %d not found", e.Node)
	case UnexpectedNodeData:
		return fmt.Sprintf("cst: unexpected node data at %d", e.Node)
	case UnexpectedExtraNode:
		return fmt.Sprintf("cst: unexpected extra node %d", e.Node)
	default:
		return "cst: construct error"
	}
}
