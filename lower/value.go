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

package lower

import (
	"strings"

	"github.com/eure-lang/eure/cst"
	"github.com/eure-lang/eure/document"
	"github.com/eure-lang/eure/literal"
)

// lowerValueInto binds view's value at the cursor's current node,
// recursing into containers as needed. It never pushes or pops the
// cursor itself — callers own that.
func (v *Visitor) lowerValueInto(view cst.ValueView) error {
	switch view.Kind {
	case cst.ValueFloat:
		text, _ := v.store.TerminalText(view.Terminal)
		n, err := literal.ParseFloat(text)
		if err != nil {
			return wrap(ErrInvalidBigInt, text, err)
		}
		return v.bind(document.PrimitiveValue{Kind: document.PrimFloat64, Float: n})
	case cst.ValueInteger:
		text, _ := v.store.TerminalText(view.Terminal)
		n, err := literal.ParseBigInt(text)
		if err != nil {
			return wrap(ErrInvalidBigInt, text, err)
		}
		return v.bind(document.PrimitiveValue{Kind: document.PrimBigInt, Int: n})
	case cst.ValueBool:
		text, _ := v.store.TerminalText(view.Terminal)
		return v.bind(document.PrimitiveValue{Kind: document.PrimBool, Bool: text == "true"})
	case cst.ValueNull:
		return v.bind(document.PrimitiveValue{Kind: document.PrimNull})
	case cst.ValueHole:
		return nil // leave the node as KindHole: an explicit placeholder
	case cst.ValueStrings:
		text, err := v.lowerStrings(*view.Strings)
		if err != nil {
			return err
		}
		return v.bind(document.PrimitiveValue{Kind: document.PrimText, Text: text})
	case cst.ValueInlineCode:
		code, err := v.lowerInlineCode(*view.InlineCode)
		if err != nil {
			return err
		}
		return v.bind(document.PrimitiveValue{Kind: document.PrimCode, Code: code})
	case cst.ValueCodeBlock:
		code, err := v.lowerCodeBlock(*view.CodeBlock)
		if err != nil {
			return err
		}
		return v.bind(document.PrimitiveValue{Kind: document.PrimCode, Code: code})
	case cst.ValueObject:
		return v.lowerObject(*view.Object)
	case cst.ValueArray:
		return v.lowerArray(*view.Array)
	case cst.ValueTuple:
		return v.lowerTuple(*view.Tuple)
	case cst.ValuePath:
		p, err := v.lowerPath(*view.Path)
		if err != nil {
			return err
		}
		return v.bind(document.PrimitiveValue{Kind: document.PrimPath, Path: p})
	default:
		return wrap(ErrCst, "unknown Value variant", nil)
	}
}

func (v *Visitor) bind(p document.PrimitiveValue) error {
	if err := v.ctor.BindPrimitive(p); err != nil {
		return wrapInsert("primitive", err)
	}
	return nil
}

func (v *Visitor) lowerStrings(h cst.StringsHandle) (string, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return "", wrap(ErrCst, "malformed Strings", err)
	}
	headText, _ := v.store.TerminalText(view.Head)
	head, err := literal.Unescape(trimQuotes(headText))
	if err != nil {
		return "", wrap(ErrInvalidStringKey, headText, err)
	}
	if len(view.Tail) == 0 {
		return head, nil
	}
	var b strings.Builder
	b.WriteString(head)
	for _, id := range view.Tail {
		text, _ := v.store.TerminalText(id)
		part, err := literal.Unescape(trimQuotes(text))
		if err != nil {
			return "", wrap(ErrInvalidStringKey, text, err)
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

func (v *Visitor) lowerInlineCode(h cst.InlineCodeHandle) (document.Code, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.Code{}, wrap(ErrCst, "malformed InlineCode", err)
	}
	switch view.Variant {
	case cst.InlineCodeV1:
		text, _ := v.store.TerminalText(view.Single)
		lang, content, err := literal.ParseInline1(text)
		if err != nil {
			return document.Code{}, wrap(ErrInvalidInlineCode, text, err)
		}
		return document.Code{Content: content, Language: lang}, nil
	case cst.InlineCodeV2:
		startText, _ := v.store.TerminalText(view.Start)
		lang, err := literal.ParseInline2Start(startText)
		if err != nil {
			return document.Code{}, wrap(ErrInvalidInlineCode, startText, err)
		}
		var b strings.Builder
		for _, id := range view.Body {
			text, _ := v.store.TerminalText(id)
			b.WriteString(text)
		}
		return document.Code{Content: b.String(), Language: lang}, nil
	default:
		return document.Code{}, wrap(ErrCst, "unknown InlineCode variant", nil)
	}
}

func (v *Visitor) lowerCodeBlock(h cst.CodeBlockHandle) (document.Code, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.Code{}, wrap(ErrCst, "malformed CodeBlock", err)
	}
	startText, _ := v.store.TerminalText(view.Start)
	lang, err := literal.ParseBlockStart(int(view.Width), startText)
	if err != nil {
		return document.Code{}, wrap(ErrInvalidCodeBlock, startText, err)
	}
	var b strings.Builder
	for _, id := range view.Body {
		text, _ := v.store.TerminalText(id)
		b.WriteString(text)
	}
	return document.Code{Content: b.String(), Language: lang}, nil
}

func (v *Visitor) lowerObject(h cst.ObjectHandle) error {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return wrap(ErrCst, "malformed Object", err)
	}
	if err := v.ctor.BindEmptyMap(); err != nil {
		return wrapInsert("object", err)
	}
	if view.Value != nil {
		if _, err := v.lowerValueBindingAtRoot(*view.Value); err != nil {
			return err
		}
	}
	for _, e := range view.Entries {
		if err := v.lowerObjectEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) lowerObjectEntry(h cst.ObjectEntryHandle) error {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return wrap(ErrCst, "malformed ObjectEntry", err)
	}
	segs, _, err := v.lowerKeys(view.Keys)
	if err != nil {
		return err
	}
	guard := v.ctor.Guard()
	defer guard.Close()
	if err := v.ctor.PushPath(segs); err != nil {
		return wrapInsert("object entry", err)
	}
	vv, err := view.Value.View(v.store, v.ignoreTrivia)
	if err != nil {
		return wrap(ErrCst, "malformed Value", err)
	}
	return v.lowerValueInto(vv)
}

func (v *Visitor) lowerArray(h cst.ArrayHandle) error {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return wrap(ErrCst, "malformed Array", err)
	}
	if err := v.ctor.BindEmptyArray(); err != nil {
		return wrapInsert("array", err)
	}
	for _, elem := range view.Elems {
		guard := v.ctor.Guard()
		if err := v.ctor.PushPath([]document.PathSegment{{Kind: document.SegArrayAppend}}); err != nil {
			guard.Close()
			return wrapInsert("array element", err)
		}
		vv, err := elem.View(v.store, v.ignoreTrivia)
		if err != nil {
			guard.Close()
			return wrap(ErrCst, "malformed array Value", err)
		}
		if err := v.lowerValueInto(vv); err != nil {
			guard.Close()
			return err
		}
		guard.Close()
	}
	return nil
}

func (v *Visitor) lowerTuple(h cst.TupleHandle) error {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return wrap(ErrCst, "malformed Tuple", err)
	}
	if err := v.ctor.BindEmptyTuple(); err != nil {
		return wrapInsert("tuple", err)
	}
	for i, elem := range view.Elems {
		guard := v.ctor.Guard()
		if err := v.ctor.PushPath([]document.PathSegment{{Kind: document.SegTupleIndex, Index: i}}); err != nil {
			guard.Close()
			return wrapInsert("tuple element", err)
		}
		vv, err := elem.View(v.store, v.ignoreTrivia)
		if err != nil {
			guard.Close()
			return wrap(ErrCst, "malformed tuple Value", err)
		}
		if err := v.lowerValueInto(vv); err != nil {
			guard.Close()
			return err
		}
		guard.Close()
	}
	return nil
}

// lowerPath lowers a Path literal (".a.b.c") into a document.Path
// value, exposed for the primitive-Value Path variant used by schema
// references and other path-valued fields.
func (v *Visitor) lowerPath(h cst.PathHandle) (document.Path, error) {
	view, err := h.View(v.store, v.ignoreTrivia)
	if err != nil {
		return document.Path{}, wrap(ErrCst, "malformed Path", err)
	}
	out := document.Path{}
	for _, id := range view.Idents {
		text, _ := v.store.TerminalText(id)
		if !literal.IsValidIdent(text) {
			return document.Path{}, wrap(ErrInvalidIdentifier, text, nil)
		}
		out.Idents = append(out.Idents, literal.NormalizeIdent(text))
	}
	return out, nil
}
