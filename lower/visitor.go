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

// Package lower implements the value visitor: the CST-to-EureDocument
// lowering pass. It walks the typed handle layer (never the raw
// arena), resolving key paths, joining string continuations, decoding
// code-block/inline-code fences, and recursing into arrays, tuples,
// and nested objects, while building up a parallel SourceDocument
// layout so the result can be re-emitted in its original surface form.
package lower

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/eure-lang/eure/cst"
	"github.com/eure-lang/eure/document"
	"github.com/eure-lang/eure/literal"
	"github.com/eure-lang/eure/token"
)

// ErrorKind discriminates DocumentConstructionError's variants (spec §7).
type ErrorKind int

const (
	_ ErrorKind = iota
	ErrUnprocessedSegments
	ErrInvalidIdentifier
	ErrInvalidInteger
	ErrInvalidBigInt
	ErrInvalidTupleIndex
	ErrInvalidStringKey
	ErrInvalidInlineCode
	ErrInvalidCodeBlock
	ErrDocumentInsert
	ErrDuplicateBinding
	ErrDynamicTokenNotFound
	ErrCst
)

// DocumentConstructionError is the single error type the value visitor
// returns; Unwrap exposes the underlying cause for inspection by
// callers that want to match on it (spec §7: all inspectable via
// errors.As/errors.Unwrap).
type DocumentConstructionError struct {
	Kind  ErrorKind
	Msg   string
	cause error
}

func (e *DocumentConstructionError) Error() string { return "lower: " + e.Msg }
func (e *DocumentConstructionError) Unwrap() error { return e.cause }

func wrap(kind ErrorKind, msg string, cause error) error {
	return &DocumentConstructionError{Kind: kind, Msg: msg, cause: cause}
}

// wrapInsert wraps a failure returned by the Constructor, distinguishing
// a rebind of an already-written node (document.ErrAlreadyWritten) from
// the other document.InsertError kinds, the way cue/ast.go tells a
// not-concrete-label error apart from other compile failures by testing
// the cause with xerrors.Is against a sentinel value.
func wrapInsert(msg string, cause error) error {
	annotated := xerrors.Errorf("%s: %w", msg, cause)
	if xerrors.Is(cause, &document.InsertError{Kind: document.ErrAlreadyWritten}) {
		return wrap(ErrDuplicateBinding, msg, annotated)
	}
	return wrap(ErrDocumentInsert, msg, annotated)
}

// Visitor lowers a cst.Store into a document.SourceDocument. It is not
// a cst.CstVisitor: the grammar's binding/section recursion is driven
// explicitly rather than through the generic dispatcher, because each
// rule needs bespoke path-stack bookkeeping the structural visitor
// does not model.
type Visitor struct {
	store *cst.Store
	ctor  *document.Constructor
	doc   *document.SourceDocument
}

// New returns a Visitor ready to lower root (an NTEure handle) against
// a freshly created document.
func New(store *cst.Store) *Visitor {
	doc := document.New()
	return &Visitor{
		store: store,
		ctor:  document.NewConstructor(doc),
		doc:   &document.SourceDocument{Doc: doc},
	}
}

// Lower runs the full pass and returns the resulting SourceDocument.
func (v *Visitor) Lower(root cst.EureHandle) (*document.SourceDocument, error) {
	items, err := v.lowerEure(root)
	if err != nil {
		return nil, err
	}
	v.doc.Layout = items
	return v.doc, nil
}

func (v *Visitor) ignoreTrivia(cst.CstNodeId) {}

func (v *Visitor) lowerEure(h cst.EureHandle) ([]document.LayoutItem, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return nil, wrap(ErrCst, "malformed Eure node", err)
	}
	var items []document.LayoutItem
	if view.Value != nil {
		item, err := v.lowerValueBindingAtRoot(*view.Value)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	for _, b := range view.Bindings {
		item, err := v.lowerBinding(b)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	for _, s := range view.Sections {
		item, err := v.lowerSection(s)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// lowerValueBindingAtRoot handles the optional leading `= Value` an
// Eure/Object/SectionBodyItems node may carry, binding it at the
// cursor's current position (the object's own node) rather than
// pushing any key path.
func (v *Visitor) lowerValueBindingAtRoot(h cst.ValueBindingHandle) (document.LayoutItem, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.LayoutItem{}, wrap(ErrCst, "malformed ValueBinding", err)
	}
	if err := v.lowerValueInto(view.Value); err != nil {
		return document.LayoutItem{}, err
	}
	return document.LayoutItem{Kind: document.LayoutBinding, Node: v.ctor.CurrentNode()}, nil
}

func (v *Visitor) lowerBinding(h cst.BindingHandle) (document.LayoutItem, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.LayoutItem{}, wrap(ErrCst, "malformed Binding", err)
	}
	segs, srcSegs, err := v.lowerKeys(view.Keys)
	if err != nil {
		return document.LayoutItem{}, err
	}
	guard := v.ctor.Guard()
	defer guard.Close()
	if err := v.ctor.PushBindingPath(segs); err != nil {
		return document.LayoutItem{}, wrapInsert("binding path", err)
	}
	switch view.RhsKind {
	case cst.RhsValue:
		rv, err := view.ValueRhs.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.LayoutItem{}, wrap(ErrCst, "malformed ValueBinding", err)
		}
		if err := v.lowerValueInto(rv.Value); err != nil {
			return document.LayoutItem{}, err
		}
	case cst.RhsSection:
		sv, err := view.SectionRhs.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.LayoutItem{}, wrap(ErrCst, "malformed SectionBinding", err)
		}
		if err := v.ctor.BindEmptyMap(); err != nil {
			return document.LayoutItem{}, wrapInsert("section binding", err)
		}
		if _, err := v.lowerEure(sv.Body); err != nil {
			return document.LayoutItem{}, err
		}
	case cst.RhsText:
		tv, err := view.TextRhs.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.LayoutItem{}, wrap(ErrCst, "malformed TextBinding", err)
		}
		text, ok := v.store.TerminalText(tv.Content)
		if !ok {
			return document.LayoutItem{}, wrap(ErrDynamicTokenNotFound, "text binding content", nil)
		}
		if err := v.ctor.BindPrimitive(document.PrimitiveValue{Kind: document.PrimText, Text: text}); err != nil {
			return document.LayoutItem{}, wrapInsert("text binding", err)
		}
	}
	return document.LayoutItem{Kind: document.LayoutBinding, Path: srcSegs, Node: v.ctor.CurrentNode()}, nil
}

func (v *Visitor) lowerSection(h cst.SectionHandle) (document.LayoutItem, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.LayoutItem{}, wrap(ErrCst, "malformed Section", err)
	}
	segs, srcSegs, err := v.lowerKeys(view.Keys)
	if err != nil {
		return document.LayoutItem{}, err
	}
	guard := v.ctor.Guard()
	defer guard.Close()
	if err := v.ctor.PushPath(segs); err != nil {
		return document.LayoutItem{}, wrapInsert("section path", err)
	}
	item := document.LayoutItem{Kind: document.LayoutSection, Path: srcSegs}
	switch view.BodyKind {
	case cst.SectionItems:
		item.BodyForm = document.SectionFormItems
		iv, err := view.Items.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.LayoutItem{}, wrap(ErrCst, "malformed SectionBody(Items)", err)
		}
		var sub []document.LayoutItem
		if iv.Value != nil {
			it, err := v.lowerValueBindingAtRoot(*iv.Value)
			if err != nil {
				return document.LayoutItem{}, err
			}
			sub = append(sub, it)
		}
		for _, b := range iv.Bindings {
			it, err := v.lowerBinding(b)
			if err != nil {
				return document.LayoutItem{}, err
			}
			sub = append(sub, it)
		}
		item.Items = sub
	case cst.SectionBlock:
		item.BodyForm = document.SectionFormBlock
		bv, err := view.Block.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.LayoutItem{}, wrap(ErrCst, "malformed SectionBody(Block)", err)
		}
		sub, err := v.lowerEure(bv.Body)
		if err != nil {
			return document.LayoutItem{}, err
		}
		item.Items = sub
	}
	return item, nil
}

// lowerKeys resolves a Keys handle into both the Constructor's
// PathSegment chain (used to navigate/create document nodes) and the
// lossless SourcePathSegment chain (used to re-emit the header).
func (v *Visitor) lowerKeys(h cst.KeysHandle) ([]document.PathSegment, []document.SourcePathSegment, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return nil, nil, wrap(ErrCst, "malformed Keys", err)
	}
	var segs []document.PathSegment
	var src []document.SourcePathSegment
	for _, k := range view.Keys {
		seg, srcSeg, err := v.lowerKey(k)
		if err != nil {
			return nil, nil, err
		}
		segs = append(segs, seg...)
		src = append(src, srcSeg...)
	}
	return segs, src, nil
}

func (v *Visitor) lowerKey(h cst.KeyHandle) ([]document.PathSegment, []document.SourcePathSegment, error) {
	kv, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return nil, nil, wrap(ErrCst, "malformed Key", err)
	}
	seg, srcSeg, err := v.lowerKeyBase(kv.Base)
	if err != nil {
		return nil, nil, err
	}
	segs := []document.PathSegment{seg}
	srcSegs := []document.SourcePathSegment{srcSeg}
	if kv.Array != nil {
		mv, err := kv.Array.View(v.store, v.ignoreTrivia)
		if err != nil {
			return nil, nil, wrap(ErrCst, "malformed ArrayMarker", err)
		}
		if mv.HasIndex {
			text, _ := v.store.TerminalText(mv.Index)
			n, ierr := literal.ParseBigInt(text)
			if ierr != nil {
				return nil, nil, wrap(ErrInvalidInteger, fmt.Sprintf("array index %q", text), ierr)
			}
			idx, _ := n.Int64()
			segs = append(segs, document.PathSegment{Kind: document.SegArrayIndex, Index: int(idx)})
			srcSegs = append(srcSegs, document.SourcePathSegment{Kind: document.SegArrayIndex, Index: int(idx)})
		} else {
			segs = append(segs, document.PathSegment{Kind: document.SegArrayAppend})
			srcSegs = append(srcSegs, document.SourcePathSegment{Kind: document.SegArrayAppend})
		}
	}
	return segs, srcSegs, nil
}

func (v *Visitor) lowerKeyBase(view cst.KeyBaseView) (document.PathSegment, document.SourcePathSegment, error) {
	switch view.Kind {
	case cst.KeyBaseIdent:
		text, _ := v.store.TerminalText(view.Terminal)
		if !literal.IsValidIdent(text) {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrInvalidIdentifier, fmt.Sprintf("%q", text), nil)
		}
		text = literal.NormalizeIdent(text)
		return document.PathSegment{Kind: document.SegIdent, Ident: text}, document.SourcePathSegment{Kind: document.SegIdent, Ident: text}, nil
	case cst.KeyBaseExtension:
		ev, err := view.Extension.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrCst, "malformed ExtensionNameSpace", err)
		}
		text, _ := v.store.TerminalText(ev.Ident)
		if !literal.IsValidIdent(text) {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrInvalidIdentifier, fmt.Sprintf("$%s", text), nil)
		}
		return document.PathSegment{Kind: document.SegExtension, Ident: text}, document.SourcePathSegment{Kind: document.SegExtension, Ident: text}, nil
	case cst.KeyBaseString:
		text, _ := v.store.TerminalText(view.Terminal)
		unq, err := literal.Unescape(trimQuotes(text))
		if err != nil {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrInvalidStringKey, text, err)
		}
		key := document.ObjectKey{Kind: document.KeyString, String: unq}
		return document.PathSegment{Kind: document.SegValue, Value: key}, document.SourcePathSegment{Kind: document.SegValue, Value: key}, nil
	case cst.KeyBaseInteger:
		text, _ := v.store.TerminalText(view.Terminal)
		n, err := literal.ParseBigInt(text)
		if err != nil {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrInvalidInteger, text, err)
		}
		key := document.ObjectKey{Kind: document.KeyNumber, Number: n}
		return document.PathSegment{Kind: document.SegValue, Value: key}, document.SourcePathSegment{Kind: document.SegValue, Value: key}, nil
	case cst.KeyBaseTuple:
		key, err := v.lowerKeyTuple(*view.Tuple)
		if err != nil {
			return document.PathSegment{}, document.SourcePathSegment{}, err
		}
		return document.PathSegment{Kind: document.SegValue, Value: key}, document.SourcePathSegment{Kind: document.SegValue, Value: key}, nil
	case cst.KeyBaseTupleIndex:
		tv, err := view.TupleIdx.View(v.store, v.ignoreTrivia)
		if err != nil {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrCst, "malformed TupleIndexKey", err)
		}
		text, _ := v.store.TerminalText(tv.Index)
		n, err := literal.ParseBigInt(text)
		if err != nil {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrInvalidTupleIndex, text, err)
		}
		idx, _ := n.Int64()
		if idx < 0 || idx > 255 {
			return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrInvalidTupleIndex, text, nil)
		}
		return document.PathSegment{Kind: document.SegTupleIndex, Index: int(idx)},
			document.SourcePathSegment{Kind: document.SegTupleIndex, Index: int(idx)}, nil
	default:
		return document.PathSegment{}, document.SourcePathSegment{}, wrap(ErrCst, "unknown KeyBase variant", nil)
	}
}

func (v *Visitor) lowerKeyTuple(h cst.KeyTupleHandle) (document.ObjectKey, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.ObjectKey{}, wrap(ErrCst, "malformed KeyTuple", err)
	}
	out := document.ObjectKey{Kind: document.KeyTuple}
	for _, e := range view.Elems {
		k, err := v.lowerKeyValue(e)
		if err != nil {
			return document.ObjectKey{}, err
		}
		out.Tuple = append(out.Tuple, k)
	}
	return out, nil
}

func (v *Visitor) lowerKeyValue(h cst.KeyValueHandle) (document.ObjectKey, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.ObjectKey{}, wrap(ErrCst, "malformed KeyValue", err)
	}
	switch view.Kind {
	case cst.KeyValueString:
		text, _ := v.store.TerminalText(view.Terminal)
		unq, err := literal.Unescape(trimQuotes(text))
		if err != nil {
			return document.ObjectKey{}, wrap(ErrInvalidStringKey, text, err)
		}
		return document.ObjectKey{Kind: document.KeyString, String: unq}, nil
	case cst.KeyValueInteger:
		text, _ := v.store.TerminalText(view.Terminal)
		n, err := literal.ParseBigInt(text)
		if err != nil {
			return document.ObjectKey{}, wrap(ErrInvalidInteger, text, err)
		}
		return document.ObjectKey{Kind: document.KeyNumber, Number: n}, nil
	case cst.KeyValueBool:
		text, _ := v.store.TerminalText(view.Terminal)
		return document.ObjectKey{Kind: document.KeyBool, Bool: text == "true"}, nil
	case cst.KeyValueTuple:
		return v.lowerKeyTuple(*view.Tuple)
	default:
		return document.ObjectKey{}, wrap(ErrCst, "unknown KeyValue variant", nil)
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
