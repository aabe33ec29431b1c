/*
 * doc.go, part of confcat.
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

/*Package conf is the main package of confcat. It provides the atomic sample
and configuration record types, an XYZ reader/writer, and the naming convention
used to store configurations under pressure/temperature directories.

	**confcat capabilities**

    Reads and writes XYZ files (with or without the atom-count line),
	keeping atom order and full float64 precision.

    Reads pressure and temperature from directory names (P225/T1000).

    Builds immutable configuration records with composition, state
	and extended-XYZ properties.

    Walks a P/T directory tree and ingests every configuration (package ingest),
	isolating per-directory and per-file failures.

    Stores records in a compressed, hierarchical container file keyed
	by pressure group / temperature group / identifier (package container).

    Exports a catalog of a container as Parquet (package catalog), draws
	the pressure/temperature map of a container (package catplot) and
	transfers records as JSON (package confjson).

The expected tree is

	root/
	    P<pressure>/
	        T<temperature>/
	            *.xyz

Pressures are in GPa and temperatures in K unless other units are given.
*/
package conf
