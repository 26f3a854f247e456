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
	"github.com/pkg/errors"
)

var (
	// ErrStoreClosed is returned by operations on a store that was
	// already closed.
	ErrStoreClosed = errors.New("preference store is closed")

	// ErrRegistryClosed is returned by lookups on a registry that was
	// already closed.
	ErrRegistryClosed = errors.New("store registry is closed")

	// ErrWritePending is returned by PendingWrite.Err while the write
	// has not completed yet.
	ErrWritePending = errors.New("write has not completed yet")
)
