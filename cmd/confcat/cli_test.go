/*
 * cli_test.go, part of confcat.
 *
 * Copyright 2026 The confcat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/confcat/catalog"
	"github.com/rmera/confcat/confjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const water = `3
state=liquid
O 0.0 0.0 0.0
H 0.757 0.586 0.0
H -0.757 0.586 0.0
`

type fixture struct {
	dir       string
	root      string
	container string
}

func newFixture(Te *testing.T) *fixture {
	dir := Te.TempDir()
	f := &fixture{dir: dir, root: filepath.Join(dir, "data"), container: filepath.Join(dir, "c.cfc")}
	files := map[string]string{
		"P225/T1000/config1.xyz": water,
		"P225/T1000/config2.xyz": "Si 0 0 0\nSi 1 1 1\n",
		"P225/T2000/config1.xyz": water,
		"P150/T500/broken.xyz":   "1\n\nH 0 0\n",
		"Pbad/T1/x.xyz":          water,
	}
	for name, content := range files {
		path := filepath.Join(f.root, filepath.FromSlash(name))
		require.NoError(Te, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(Te, os.WriteFile(path, []byte(content), 0o644))
	}
	return f
}

func (f *fixture) run(args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := newRootCmd(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", filepath.Join(f.dir, "none.yaml"), "-c", f.container}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestCLI(Te *testing.T) {
	Te.Setenv("CONFCAT_CONTAINER", "")
	f := newFixture(Te)
	out, err := f.run("create", f.root, "--workers", "2")
	require.NoError(Te, err)
	assert.Contains(Te, out, "config1  P=225 GPa  T=1000 K  H2O  liquid")
	assert.Contains(Te, out, "3 records stored")
	assert.Contains(Te, out, "skipped 2:")
	assert.Contains(Te, out, filepath.Join(f.root, "P150", "T500", "broken.xyz"))
	assert.Contains(Te, out, filepath.Join(f.root, "Pbad"))

	//again: everything is a duplicate
	out, err = f.run("create", f.root)
	require.NoError(Te, err)
	assert.Contains(Te, out, "0 records stored")
	assert.Contains(Te, out, "duplicate identifier")

	out, err = f.run("create", f.root, "--overwrite")
	require.NoError(Te, err)
	assert.Contains(Te, out, "3 records stored")

	out, err = f.run("list", "--temperature", "1000")
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(Te, lines, 2)
	assert.True(Te, strings.HasPrefix(lines[0], "config1"))
	assert.True(Te, strings.HasPrefix(lines[1], "config2"))
	out, err = f.run("list", "-p", "3")
	require.NoError(Te, err)
	assert.Equal(Te, "no records\n", out)
	_, err = f.run("list", "-p", "abc")
	assert.Error(Te, err)

	out, err = f.run("show", "config2", "-p", "225", "-t", "1000")
	require.NoError(Te, err)
	assert.Contains(Te, out, "config2")
	assert.Contains(Te, out, "Si2")
	_, err = f.run("show", "config2")
	assert.Error(Te, err)

	out, err = f.run("show", "config1", "-p", "225", "-t", "2000", "--json")
	require.NoError(Te, err)
	r, jerr := confjson.DecodeRecord(bufio.NewReader(strings.NewReader(out)))
	require.Nil(Te, jerr)
	assert.Equal(Te, "H2O", r.Composition().Formula())

	pq := filepath.Join(f.dir, "catalog.parquet")
	out, err = f.run("export", pq)
	require.NoError(Te, err)
	assert.Contains(Te, out, "3 rows")
	rows, err := catalog.ReadFile(pq)
	require.NoError(Te, err)
	assert.Len(Te, rows, 3)

	png := filepath.Join(f.dir, "map.png")
	_, err = f.run("plot", png)
	require.NoError(Te, err)
	_, err = os.Stat(png)
	assert.NoError(Te, err)

	out, err = f.run("info")
	require.NoError(Te, err)
	assert.Contains(Te, out, "records     3 in 2 groups")
	out, err = f.run("info", "--json")
	require.NoError(Te, err)
	assert.Contains(Te, out, `"Records":3`)

	out, err = f.run("delete", "config1", "-p", "225", "-t", "1000")
	require.NoError(Te, err)
	assert.Contains(Te, out, "deleted config1")
	_, err = f.run("show", "config1", "-p", "225", "-t", "1000")
	assert.Error(Te, err)
	_, err = f.run("delete", "config1", "-p", "225", "-t", "1000")
	assert.Error(Te, err)
}

func TestCLIFatal(Te *testing.T) {
	Te.Setenv("CONFCAT_CONTAINER", "")
	f := newFixture(Te)
	_, err := f.run("create", filepath.Join(f.dir, "missing"))
	assert.Error(Te, err)
	_, err = f.run("list")
	assert.Error(Te, err, "the container was not created")
	_, err = f.run("info")
	assert.Error(Te, err)

	require.NoError(Te, os.WriteFile(f.container, []byte("garbage"), 0o644))
	_, err = f.run("list")
	assert.Error(Te, err)
}
