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

package prefs

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestValueAccessors(t *testing.T) {
	RegisterTestingT(t)

	s, err := String("hello").AsString()
	Expect(err).To(BeNil())
	Expect(s).To(BeEquivalentTo("hello"))

	n, err := Int64(42).AsInt64()
	Expect(err).To(BeNil())
	Expect(n).To(BeEquivalentTo(42))

	f, err := Float64(1.5).AsFloat64()
	Expect(err).To(BeNil())
	Expect(f).To(BeEquivalentTo(1.5))

	b, err := Bool(true).AsBool()
	Expect(err).To(BeNil())
	Expect(b).To(BeTrue())

	set, err := StringSet([]string{"b", "a"}).AsStringSet()
	Expect(err).To(BeNil())
	Expect(set).To(Equal([]string{"a", "b"}))
}

func TestValueTypeMismatch(t *testing.T) {
	RegisterTestingT(t)

	_, err := String("hello").AsInt64()
	Expect(err).ToNot(BeNil())
	Expect(IsTypeMismatch(err)).To(BeTrue())

	_, err = Int64(7).AsBool()
	Expect(err).ToNot(BeNil())
	Expect(IsTypeMismatch(err)).To(BeTrue())

	// int64 and float64 are distinct types, no coercion happens
	_, err = Int64(7).AsFloat64()
	Expect(err).ToNot(BeNil())
	Expect(IsTypeMismatch(err)).To(BeTrue())

	_, err = Float64(7).AsInt64()
	Expect(err).ToNot(BeNil())
	Expect(IsTypeMismatch(err)).To(BeTrue())
}

func TestValueOf(t *testing.T) {
	RegisterTestingT(t)

	v, err := ValueOf("text")
	Expect(err).To(BeNil())
	Expect(v.Type()).To(Equal(TypeString))

	v, err = ValueOf(7)
	Expect(err).To(BeNil())
	Expect(v.Type()).To(Equal(TypeInt64))

	v, err = ValueOf(float32(2.5))
	Expect(err).To(BeNil())
	Expect(v.Type()).To(Equal(TypeFloat64))

	v, err = ValueOf([]string{"x"})
	Expect(err).To(BeNil())
	Expect(v.Type()).To(Equal(TypeStringSet))

	v, err = ValueOf(Bool(false))
	Expect(err).To(BeNil())
	Expect(v.Type()).To(Equal(TypeBool))

	_, err = ValueOf(struct{ X int }{})
	Expect(err).ToNot(BeNil())
	Expect(IsUnsupportedType(err)).To(BeTrue())

	_, err = ValueOf(nil)
	Expect(err).ToNot(BeNil())
	Expect(IsUnsupportedType(err)).To(BeTrue())
}

func TestStringSetCanonicalForm(t *testing.T) {
	RegisterTestingT(t)

	a := StringSet([]string{"z", "a", "z", "m"})
	b := StringSet([]string{"m", "z", "a"})
	Expect(a.Equal(b)).To(BeTrue())

	set, err := a.AsStringSet()
	Expect(err).To(BeNil())
	Expect(set).To(Equal([]string{"a", "m", "z"}))

	// returned slice is a copy, mutating it does not affect the value
	set[0] = "changed"
	set2, err := a.AsStringSet()
	Expect(err).To(BeNil())
	Expect(set2).To(Equal([]string{"a", "m", "z"}))
}

func TestValueEqual(t *testing.T) {
	RegisterTestingT(t)

	Expect(String("x").Equal(String("x"))).To(BeTrue())
	Expect(String("x").Equal(String("y"))).To(BeFalse())
	Expect(Int64(1).Equal(Float64(1))).To(BeFalse())
	Expect(Bool(false).Equal(String(""))).To(BeFalse())
	Expect(StringSet(nil).Equal(StringSet([]string{}))).To(BeTrue())
	Expect(StringSet([]string{"a"}).Equal(StringSet([]string{"a", "b"}))).To(BeFalse())
}

func TestZeroValue(t *testing.T) {
	RegisterTestingT(t)

	var v Value
	Expect(v.Type()).To(Equal(TypeString))
	s, err := v.AsString()
	Expect(err).To(BeNil())
	Expect(s).To(BeEquivalentTo(""))
	Expect(v.Equal(String(""))).To(BeTrue())
}
