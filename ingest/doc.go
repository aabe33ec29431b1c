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
Package ingest finds atomic configurations in a directory tree and turns them into
records. The tree looks like this:

	root/
	    P225/
	        T1000/
	            config1.xyz
	            config2.xyz
	        T2000/
	    P150/
	        T500/

Directories whose names don't start with P (or T, one level down) are ignored.
Those that do but can't be read as a number, such as "Pfoo", are reported as
failures, as are files that can't be parsed. None of them stops the traversal.

Walk gives the records one at a time. Run stores them in a Sink such as a container.
*/
package ingest
