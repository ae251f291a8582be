package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dhamidi/javatree/java"
	"github.com/tliron/commonlog"
)

var (
	packagePattern = regexp.MustCompile(`^[ \t]*package[ \t]+([A-Za-z0-9_.]+)[ \t]*;[ \t]*$`)
	typePattern    = regexp.MustCompile(`^[ \t]*((?:@[A-Za-z_$][\w$.]*(?:[ \t]*\([^)]*\))?[ \t]+)*)((?:(?:public|protected|private|abstract|final|static|strictfp|sealed|non-sealed)[ \t]+)*)(class|interface|enum|record|@[ \t]*interface)[ \t]+([A-Za-z_$].*)$`)
)

type Options struct {
	// AllClasses emits package-private, protected and private classes too.
	// By default only classes declared public are emitted.
	AllClasses bool

	// FileLabel turns a source path into the file label recorded on each
	// signature. Defaults to the base name.
	FileLabel func(path string) string
}

func (o Options) label(path string) string {
	if o.FileLabel != nil {
		return o.FileLabel(path)
	}
	return filepath.Base(path)
}

// Diagnostic is a recoverable problem found while scanning a file.
type Diagnostic struct {
	Path    string
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
}

// Extractor recognizes package and class declarations in scrubbed source
// lines. It is a line oriented heuristic, not a Java parser.
type Extractor struct {
	opts Options
	log  commonlog.Logger
}

func NewExtractor(opts Options, log commonlog.Logger) *Extractor {
	if log == nil {
		log = commonlog.GetLogger("javatree.scanner")
	}
	return &Extractor{opts: opts, log: log}
}

// ScanFile scans one source file. An error is returned only when the file
// cannot be opened; everything else is reported as a Diagnostic.
func (e *Extractor) ScanFile(path string) ([]java.ClassSignature, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sigs, diags := e.Scan(f, path)
	return sigs, diags, nil
}

func (e *Extractor) Scan(r io.Reader, path string) ([]java.ClassSignature, []Diagnostic) {
	s := &fileScan{
		e:      e,
		reader: NewReader(r),
		path:   path,
		file:   e.opts.label(path),
	}
	s.run()
	return s.sigs, s.diags
}

type clauseState int

const (
	clauseNone clauseState = iota
	clauseExtends
	clauseImplements
	clausePermits
)

// fileScan is the per file state: package, open brace scopes and results.
type fileScan struct {
	e      *Extractor
	reader *Reader
	path   string
	file   string
	pkg    string

	// scopes has one entry per open brace: the simple name of the class
	// whose body it opens, or "" for any other block.
	scopes []string

	sigs  []java.ClassSignature
	diags []Diagnostic
}

func (s *fileScan) run() {
	for {
		line, err := s.reader.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.report(s.reader.LineNumber()+1, fmt.Sprintf("read: %v", err))
			return
		}
		if line.Dropped {
			s.e.log.Debugf("%s:%d: line too long, skipped", s.path, line.Number)
			continue
		}
		if len(line.Text) == 0 || len(line.Text) >= MaxLineLength {
			continue
		}
		s.processLine(line)
	}
}

func (s *fileScan) processLine(line Line) {
	text := line.Text
	if m := packagePattern.FindStringSubmatch(text); m != nil {
		s.pkg = m[1]
		return
	}

	// A declaration may start the line or follow any brace or semicolon,
	// so several declarations on one line are all seen.
	pending, hasPending := "", false
	segStart := 0
	for i := 0; ; i++ {
		if i == segStart {
			if name, ok := s.matchDeclaration(&text, segStart, line.Number); ok {
				pending, hasPending = name, true
			}
		}
		if i >= len(text) {
			break
		}
		switch text[i] {
		case '{':
			if hasPending {
				s.scopes = append(s.scopes, pending)
			} else {
				s.scopes = append(s.scopes, "")
			}
			pending, hasPending = "", false
			segStart = i + 1
		case '}':
			s.closeScope(line.Number)
			segStart = i + 1
		case ';':
			pending, hasPending = "", false
			segStart = i + 1
		}
	}
}

func (s *fileScan) closeScope(lineNo int) {
	if len(s.scopes) == 0 {
		s.report(lineNo, "unbalanced closing brace")
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// matchDeclaration tries the type pattern on the text starting at start.
// When the declaration has no terminator yet, following lines are joined
// onto text until one shows up. It returns the simple name of a matched
// declaration whose body follows. Interfaces, enums, records and annotation
// types name the scope they open but only classes are recorded.
func (s *fileScan) matchDeclaration(text *string, start, lineNo int) (string, bool) {
	loc := typePattern.FindStringSubmatchIndex((*text)[start:])
	if loc == nil {
		return "", false
	}
	modifiers := strings.Join(strings.Fields((*text)[start+loc[4]:start+loc[5]]), " ")
	keyword := (*text)[start+loc[6] : start+loc[7]]
	restStart := start + loc[8]

	end := strings.IndexAny((*text)[restStart:], ";{")
	for end < 0 {
		more, err := s.reader.Next()
		if err != nil {
			break
		}
		*text += " " + more.Text
		end = strings.IndexAny((*text)[restStart:], ";{")
	}

	rest := (*text)[restStart:]
	if end >= 0 {
		if rest[end] == ';' {
			return "", false
		}
		rest = rest[:end]
	}
	if keyword == "record" {
		if i := strings.IndexByte(rest, '('); i >= 0 {
			rest = rest[:i]
		}
	}

	rest = Normalize(rest)
	tokens := Split(rest, " ")
	if len(tokens) == 0 {
		return "", false
	}
	declared := tokens[0]
	simple := java.ErasedName(declared)
	if simple == "" {
		return "", false
	}
	if keyword != "class" {
		return simple, true
	}

	if s.e.opts.AllClasses || java.HasModifier(modifiers, "public") {
		supers, ifaces := parseClause(strings.TrimPrefix(rest, declared))
		s.sigs = append(s.sigs, java.ClassSignature{
			Package:      s.pkg,
			SimpleName:   simple,
			DeclaredName: declared,
			FullName:     s.fullName(simple),
			Modifiers:    modifiers,
			SuperClasses: supers,
			Interfaces:   ifaces,
			File:         s.file,
			Path:         s.path,
			Line:         lineNo,
		})
	}
	return simple, true
}

// parseClause reads the extends/implements clause that follows the
// declared name.
func parseClause(clause string) (supers, ifaces []string) {
	state := clauseNone
	for _, tok := range Split(Normalize(clause), ", ") {
		switch tok {
		case "extends":
			state = clauseExtends
			continue
		case "implements":
			state = clauseImplements
			continue
		case "permits":
			state = clausePermits
			continue
		}
		name := java.ErasedName(tok)
		if name == "" {
			continue
		}
		switch state {
		case clauseExtends:
			supers = append(supers, name)
		case clauseImplements:
			ifaces = append(ifaces, name)
		}
	}
	return supers, ifaces
}

func (s *fileScan) fullName(simple string) string {
	var parts []string
	for _, scope := range s.scopes {
		if scope != "" {
			parts = append(parts, scope)
		}
	}
	parts = append(parts, simple)
	return strings.Join(parts, ".")
}

func (s *fileScan) report(lineNo int, msg string) {
	d := Diagnostic{Path: s.path, Line: lineNo, Message: msg}
	s.diags = append(s.diags, d)
	s.e.log.Warningf("%s", d)
}
