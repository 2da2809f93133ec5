package resource

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/signadot/tres/encode"
	"github.com/signadot/tres/format"
	"github.com/signadot/tres/parse"
	"github.com/signadot/tres/scene"
)

// extDecl is an ext_resource tag found by a header scan.
type extDecl struct {
	tag  *parse.Tag
	path string
	typ  string
	uid  string
}

// headerScan reads the header and the ext_resource tags of a file.  The
// scan passes over sub_resource declarations and stops at the main content.
type headerScan struct {
	header *parse.Tag
	exts   []extDecl
}

func openErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &format.Error{Kind: format.ErrUnrecognized, Path: path, Msg: "no such resource", Err: err}
	}
	return &format.Error{Kind: format.ErrIO, Path: path, Msg: "reading", Err: err}
}

func scanHeader(r io.Reader, withExts bool) (*headerScan, error) {
	st := parse.NewStream(r)
	stmt, err := st.Next(parse.SkipRefs)
	if err == io.EOF {
		return nil, format.Errorf(format.ErrUnrecognized, 0, "empty file")
	}
	if err != nil {
		return nil, &format.Error{Kind: format.ErrUnrecognized, Line: st.Line(), Msg: "not a text resource", Err: err}
	}
	if stmt.Tag == nil || (stmt.Tag.Name != "gd_resource" && stmt.Tag.Name != "gd_scene") {
		return nil, format.Errorf(format.ErrUnrecognized, stmt.Line, "no resource header")
	}
	res := &headerScan{header: stmt.Tag}
	if !withExts {
		return res, nil
	}
	for {
		stmt, err := st.Next(parse.SkipRefs)
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		if stmt.Tag == nil {
			continue
		}
		switch stmt.Tag.Name {
		case "ext_resource":
		case "sub_resource":
			continue
		default:
			return res, nil
		}
		t := stmt.Tag
		p, ok := t.String("path")
		if !ok {
			return nil, format.Errorf(format.ErrFormat, t.Line, "ext_resource without path")
		}
		d := extDecl{tag: t, path: p}
		d.typ, _ = t.String("type")
		d.uid, _ = t.String("uid")
		res.exts = append(res.exts, d)
	}
}

func (hs *headerScan) resourceType() string {
	if hs.header.Name == "gd_scene" {
		return scene.PackedSceneClass
	}
	t, _ := hs.header.String("type")
	return t
}

// RecognizeType returns the class of the main object of a file, reading
// only its header.
func (s *Store) RecognizeType(path string) (string, error) {
	rc, err := s.FS.Open(path)
	if err != nil {
		return "", openErr(path, err)
	}
	defer rc.Close()
	hs, err := scanHeader(rc, false)
	if err != nil {
		return "", format.InFile(err, path)
	}
	return hs.resourceType(), nil
}

// GetDependencies returns the paths of the external references of a file,
// as "path::Type" if includeTypes is set.  Paths whose uid cannot be
// resolved are listed as written.
func (s *Store) GetDependencies(path string, includeTypes bool) ([]string, error) {
	rc, err := s.FS.Open(path)
	if err != nil {
		return nil, openErr(path, err)
	}
	defer rc.Close()
	hs, err := scanHeader(rc, true)
	if err != nil {
		return nil, format.InFile(err, path)
	}
	var problems []string
	res := make([]string, 0, len(hs.exts))
	for _, d := range hs.exts {
		p := resolvePath(path, d.path)
		if d.uid != "" && s.UIDs != nil {
			if up, ok := s.UIDs.Path(d.uid); ok {
				p = up
			} else {
				problems = append(problems, d.uid)
			}
		}
		if includeTypes && d.typ != "" {
			p += "::" + d.typ
		}
		res = append(res, p)
	}
	if len(problems) > 0 {
		s.log().Warn("unresolved dependency uids", "path", path, "uids", strings.Join(problems, ","))
	}
	return res, nil
}

// RenameDependencies rewrites the paths of external references of a file
// according to renames.  Only the rewritten tags change; a file with no
// matching path is left untouched.
func (s *Store) RenameDependencies(path string, renames map[string]string) error {
	d, err := readAll(s.FS, path)
	if err != nil {
		return openErr(path, err)
	}
	hs, err := scanHeader(bytes.NewReader(d), true)
	if err != nil {
		return format.InFile(err, path)
	}
	out := &bytes.Buffer{}
	last := 0
	n := 0
	for _, ext := range hs.exts {
		to, ok := renames[ext.path]
		if !ok {
			to, ok = renames[resolvePath(path, ext.path)]
		}
		if !ok || to == ext.path {
			continue
		}
		t := ext.tag
		t.SetString("path", to)
		if s.UIDs != nil {
			if uid, ok := s.UIDs.UID(to); ok {
				t.SetString("uid", uid)
			} else {
				t.Delete("uid")
			}
		}
		out.Write(d[last:t.Start])
		if err := encode.EncodeTag(out, t, nil); err != nil {
			return format.InFile(format.Wrap(format.ErrFormat, t.Line, err, "rewriting ext_resource"), path)
		}
		last = t.End
		n++
	}
	if n == 0 {
		return nil
	}
	out.Write(d[last:])
	if err := verify(out.Bytes()); err != nil {
		return &format.Error{Kind: format.ErrFormat, Path: path, Msg: "rewritten file does not parse", Err: err}
	}
	err = s.FS.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(out.Bytes())
		return err
	})
	if err != nil {
		return &format.Error{Kind: format.ErrIO, Path: path, Msg: "writing", Err: err}
	}
	s.log().Info("renamed dependencies", "path", path, "n", n)
	return nil
}

// verify checks that d reads as a sequence of statements.
func verify(d []byte) error {
	if _, err := scanHeader(bytes.NewReader(d), false); err != nil {
		return err
	}
	st := parse.NewStream(bytes.NewReader(d))
	for {
		_, err := st.Next(parse.SkipRefs)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
