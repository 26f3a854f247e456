// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prefstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ligato/prefstore/pkg/prefs"
)

type opKind int

const (
	opPut opKind = iota
	opRemove
	opClear
)

type editorOp struct {
	kind  opKind
	key   string
	value prefs.Value
}

// Editor buffers put, remove and clear operations and applies them as
// one transaction. Operations replay in the order they were issued on
// top of the document current at commit time: a Clear wipes the stored
// document together with everything buffered before it, while puts
// issued after the Clear land on the cleared state.
//
// The buffer is kept after Commit and Apply, so committing again
// re-applies the same batch. An Editor is not safe for concurrent use.
type Editor struct {
	store *Store
	ops   []editorOp
	err   error
}

// PutString buffers storing a string under key.
func (e *Editor) PutString(key, val string) *Editor {
	return e.putValue(key, prefs.String(val))
}

// PutInt buffers storing an integer under key, as int64.
func (e *Editor) PutInt(key string, val int) *Editor {
	return e.putValue(key, prefs.Int64(int64(val)))
}

// PutInt64 buffers storing an integer under key.
func (e *Editor) PutInt64(key string, val int64) *Editor {
	return e.putValue(key, prefs.Int64(val))
}

// PutFloat64 buffers storing a float under key.
func (e *Editor) PutFloat64(key string, val float64) *Editor {
	return e.putValue(key, prefs.Float64(val))
}

// PutBool buffers storing a boolean under key.
func (e *Editor) PutBool(key string, val bool) *Editor {
	return e.putValue(key, prefs.Bool(val))
}

// PutStringSet buffers storing a string set under key.
func (e *Editor) PutStringSet(key string, val []string) *Editor {
	return e.putValue(key, prefs.StringSet(val))
}

// Put buffers storing any supported Go value under key. An
// unsupported value poisons the editor: Commit and Apply fail with
// the conversion error and nothing is applied.
func (e *Editor) Put(key string, val interface{}) *Editor {
	v, err := prefs.ValueOf(val)
	if err != nil {
		if e.err == nil {
			e.err = errors.Wrapf(err, "key %q", key)
		}
		return e
	}
	return e.putValue(key, v)
}

// Remove buffers deleting the key.
func (e *Editor) Remove(key string) *Editor {
	e.ops = append(e.ops, editorOp{kind: opRemove, key: key})
	return e
}

// Clear buffers deleting all keys, including keys put earlier into
// this editor.
func (e *Editor) Clear() *Editor {
	e.ops = append(e.ops, editorOp{kind: opClear})
	return e
}

// Commit applies the buffered operations synchronously as one
// transaction and blocks until they are committed.
func (e *Editor) Commit() error {
	if e.err != nil {
		return e.err
	}
	_, err := e.store.Update(context.Background(), replayFunc(e.snapshotOps()))
	return err
}

// Apply submits the buffered operations through the asynchronous
// write path and returns immediately with the pending-write token.
func (e *Editor) Apply() *PendingWrite {
	if e.err != nil {
		return newFailedWrite(e.err)
	}
	return e.store.UpdateAsync(replayFunc(e.snapshotOps()))
}

// snapshotOps copies the buffer so that operations added after
// Commit/Apply do not leak into an in-flight transaction.
func (e *Editor) snapshotOps() []editorOp {
	ops := make([]editorOp, len(e.ops))
	copy(ops, e.ops)
	return ops
}

func replayFunc(ops []editorOp) func(prefs.Document) (prefs.Document, error) {
	return func(doc prefs.Document) (prefs.Document, error) {
		for _, op := range ops {
			switch op.kind {
			case opPut:
				doc = doc.With(op.key, op.value)
			case opRemove:
				doc = doc.Without(op.key)
			case opClear:
				doc = prefs.NewDocument()
			}
		}
		return doc, nil
	}
}

func (e *Editor) putValue(key string, v prefs.Value) *Editor {
	e.ops = append(e.ops, editorOp{kind: opPut, key: key, value: v})
	return e
}
