/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package searchpath_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/events"
	"dirpx.dev/modalias/searchpath"
)

func TestAdd_PrependsAndPropagates(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	top := searchpath.NewUnit("/main/node_modules")
	parent := searchpath.NewUnit("/parent/node_modules")

	bus := events.New()
	var added []string
	bus.On(apis.EventPathAdded, func(e apis.Event) { added = append(added, e.Fields["path"].(string)) })

	m := searchpath.New(searchpath.StaticHost{top, parent}, searchpath.WithEmitter(bus))
	ok, err := m.Add(a)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.Add(b)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{b, a}, m.Paths())
	assert.Equal(t, []string{b, a, "/main/node_modules"}, top.SearchRoots())
	assert.Equal(t, []string{b, a, "/parent/node_modules"}, parent.SearchRoots())
	assert.Equal(t, []string{a, b}, added)
}

func TestAdd_Duplicate(t *testing.T) {
	dir := t.TempDir()
	unit := searchpath.NewUnit()
	m := searchpath.New(searchpath.StaticHost{unit})

	ok, err := m.Add(dir)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.Add(filepath.Join(dir, "x", ".."))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{dir}, unit.SearchRoots())
}

func TestAdd_Relative(t *testing.T) {
	m := searchpath.New(nil)
	ok, err := m.Add("lib")
	require.NoError(t, err)
	require.True(t, ok)
	want, _ := filepath.Abs("lib")
	assert.Equal(t, []string{want}, m.Paths())
}

func TestAdd_Blank(t *testing.T) {
	m := searchpath.New(nil)
	_, err := m.Add("  ")
	var verr *apis.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, apis.ErrEmptyPath)
	assert.Zero(t, m.Len())
}

func TestAdd_UnitAlreadyHoldingPath(t *testing.T) {
	dir := t.TempDir()
	holder := searchpath.NewUnit(dir)
	other := searchpath.NewUnit()
	m := searchpath.New(searchpath.StaticHost{holder, other})

	_, err := m.Add(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, holder.SearchRoots())
	assert.Equal(t, []string{dir}, other.SearchRoots())

	m.Reset()
	assert.Equal(t, []string{dir}, holder.SearchRoots(), "pre-existing root survives reset")
	assert.Empty(t, other.SearchRoots())
}

func TestReset_RestoresRoots(t *testing.T) {
	dir := t.TempDir()
	unit := searchpath.NewUnit("/orig/one", "/orig/two")
	m := searchpath.New(searchpath.StaticHost{unit})
	_, _ = m.Add(filepath.Join(dir, "x"))
	_, _ = m.Add(filepath.Join(dir, "y"))

	m.Reset()
	assert.Empty(t, m.Paths())
	assert.Equal(t, []string{"/orig/one", "/orig/two"}, unit.SearchRoots())

	ok, err := m.Add(filepath.Join(dir, "x"))
	require.NoError(t, err)
	assert.True(t, ok, "paths can be added again after reset")
}
