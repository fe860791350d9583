package bsa

// Dialect identifies which archive generation a file belongs to.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectTes3
	DialectTes4
	DialectFo4
)

func (d Dialect) String() string {
	switch d {
	case DialectTes3:
		return "tes3"
	case DialectTes4:
		return "tes4"
	case DialectFo4:
		return "fo4"
	default:
		return "unknown"
	}
}

// Sniff inspects the leading bytes of an archive and reports its dialect
// without fully decoding it.
func Sniff(r *Reader) (Dialect, error) {
	if err := r.SeekAbs(0); err != nil {
		return DialectUnknown, err
	}
	defer r.SeekAbs(0)

	magic, err := r.ReadMagic(4)
	if err != nil {
		return DialectUnknown, err
	}

	switch magic {
	case "BSA\x00":
		return DialectTes4, nil
	case "BTDX":
		return DialectFo4, nil
	}

	if err := r.SeekAbs(0); err != nil {
		return DialectUnknown, err
	}
	version, err := r.ReadU32()
	if err != nil {
		return DialectUnknown, err
	}
	if version == 256 {
		return DialectTes3, nil
	}

	return DialectUnknown, newErr(KindInputFailure, "unrecognized archive magic", nil)
}

// Archive is a dialect-tagged, read-only view over a decoded archive. Only
// one of its dialect-specific fields is populated, matching Dialect.
type Archive struct {
	Dialect Dialect
	Tes3    *Tes3Archive
	Tes4    *Tes4Archive
	Fo4     *Fo4Archive

	reader *Reader
}

// Open memory-maps path, sniffs its dialect, and fully decodes it. By
// default it runs the TES3 integrity self-check and logs any mismatch via
// slog.Default() as an advisory warning rather than failing the load; pass
// WithLogger to redirect that signal.
func Open(path string, opts ...Option) (*Archive, error) {
	o := newOptions(opts)

	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}

	dialect, err := Sniff(r)
	if err != nil {
		r.Close()
		return nil, err
	}

	arc := &Archive{Dialect: dialect, reader: r}

	switch dialect {
	case DialectTes3:
		a, err := ReadTes3(r)
		if err != nil {
			r.Close()
			return nil, err
		}
		arc.Tes3 = a
		for _, i := range a.SanityCheck() {
			o.logger.Warn("bsa: tes3 entry hash does not match its recovered name",
				"path", path, "name", a.Files[i].Name, "index", i)
		}
	case DialectTes4:
		a, err := ReadTes4(r)
		if err != nil {
			r.Close()
			return nil, err
		}
		arc.Tes4 = a
	case DialectFo4:
		a, err := ReadFo4(r)
		if err != nil {
			r.Close()
			return nil, err
		}
		arc.Fo4 = a
	}

	return arc, nil
}

// Close releases the archive's backing memory mapping.
func (a *Archive) Close() error {
	if a.reader == nil {
		return nil
	}
	return a.reader.Close()
}

// Names returns every recovered entry name in the archive, in decoding
// order. Entries whose name wasn't recovered (name-string flags unset, or
// the string table wasn't read) are omitted.
func (a *Archive) Names() []string {
	var names []string
	switch a.Dialect {
	case DialectTes3:
		for _, f := range a.Tes3.Files {
			if f.Name != "" {
				names = append(names, f.Name)
			}
		}
	case DialectTes4:
		for _, d := range a.Tes4.Directories {
			for _, f := range d.Files {
				if f.Name == "" {
					continue
				}
				if d.Name != "" {
					names = append(names, d.Name+"\\"+f.Name)
				} else {
					names = append(names, f.Name)
				}
			}
		}
	case DialectFo4:
		switch a.Fo4.Header.Content {
		case Fo4General:
			for _, f := range a.Fo4.GeneralFiles {
				if f.Name != "" {
					names = append(names, f.Name)
				}
			}
		case Fo4Texture:
			for _, f := range a.Fo4.TextureFiles {
				if f.Name != "" {
					names = append(names, f.Name)
				}
			}
		}
	}
	return names
}

// Glob reports the recovered names that match a doublestar-style pattern
// (e.g. "meshes/**/*.nif"). Requires names to have been recovered (for
// TES4, the name-string header flags set; for FO4, a string table present).
func (a *Archive) Glob(pattern string) ([]string, error) {
	var matches []string
	for _, name := range a.Names() {
		ok, err := matchGlob(pattern, name)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, name)
		}
	}
	return matches, nil
}
