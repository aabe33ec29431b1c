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

/*
Package container stores configuration records in a single compressed file,
arranged in a two-level hierarchy: pressure group, then temperature group. Each
group is named after its value with a fixed number of decimals (see conf.GroupKey),
and the records in a temperature group are named after their identifiers.

The file starts, once uncompressed, with the string "CONFCAT" and a version
byte, followed by a protocol buffers message. The compression (zstd, gzip or xz)
is detected when reading, so a container can be read from any stream.

	C, err := container.Open("configs.cfc", container.Options{})
	if err != nil {
		//...
	}
	defer C.Close()
	for _, k := range C.List(container.Filter{Pressure: container.Val(225)}) {
		fmt.Println(k)
	}

Opening a container holds its file open until Close. A given file should be
opened by only one Container at a time.
*/
package container
