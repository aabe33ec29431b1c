/*
 * config_test.go, part of confcat.
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

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	conf "github.com/rmera/confcat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(Te *testing.T) {
	c := Default()
	require.NoError(Te, c.Validate())
	assert.Equal(Te, conf.DefaultUnits(), c.ConfUnits())
	assert.Equal(Te, runtime.NumCPU(), c.Workers)
	assert.Equal(Te, []string{".xyz"}, c.Extensions)
}

func TestLoad(Te *testing.T) {
	Te.Setenv("CONFCAT_CONTAINER", "")
	dir := Te.TempDir()
	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(Te, err)
	assert.Equal(Te, Default(), c)

	path := filepath.Join(dir, "confcat.yaml")
	require.NoError(Te, os.WriteFile(path, []byte(`
container: high-pressure.cfc.xz
workers: 2
units:
  pressure: kbar
`), 0o644))
	c, err = Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, "high-pressure.cfc.xz", c.Container)
	assert.Equal(Te, 2, c.Workers)
	assert.Equal(Te, conf.Units{Pressure: "kbar", Temperature: "K"}, c.ConfUnits())
	assert.Equal(Te, []string{".xyz"}, c.Extensions)

	Te.Setenv("CONFCAT_CONTAINER", "/elsewhere.cfc")
	c, err = Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, "/elsewhere.cfc", c.Container)
}

func TestLoadInvalid(Te *testing.T) {
	dir := Te.TempDir()
	for name, content := range map[string]string{
		"units.yaml":   "units:\n  temperature: C\n",
		"codec.yaml":   "codec: bzip2\n",
		"workers.yaml": "workers: -1\n",
		"syntax.yaml":  "workers: [\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(Te, os.WriteFile(path, []byte(content), 0o644))
		_, err := Load(path)
		assert.Error(Te, err, name)
	}
}

func TestSave(Te *testing.T) {
	Te.Setenv("CONFCAT_CONTAINER", "")
	c := Default()
	c.Overwrite = true
	c.Codec = "gzip"
	path := filepath.Join(Te.TempDir(), "sub", "confcat.yaml")
	require.NoError(Te, c.Save(path))
	back, err := Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, c, back)
}
