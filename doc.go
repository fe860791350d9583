/*

Package bsa is a decoder (and, for the Morrowind dialect, an encoder) of
Bethesda's game archive formats: the container used to ship meshes,
textures, sounds, and scripts alongside Morrowind, Oblivion, Fallout 3,
Skyrim, and Fallout 4.

Four dialects are supported:

- TES3 (Morrowind), magic 0x00000100, version 256 — read and write.

- TES4-family (Oblivion, Fallout 3, Skyrim), magic "BSA\x00", versions
103/104/105 — read only.

- FO4 general-purpose archives, magic "BTDX"+"GNRL" — read only.

- FO4 texture archives, magic "BTDX"+"DX10" — read only.

Payload decompression, mesh/texture interpretation, and cross-archive
indexing are out of scope; entries are surfaced as opaque byte ranges.

Information sources:

- clayne/bsa, the reference C++ implementation this package's on-disk
layouts and hash algorithms are derived from.

*/
package bsa
