package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a profile document.
type Format int

const (
	// FormatJSON is the default input format.
	FormatJSON Format = iota
	// FormatYAML is selected for .yaml and .yml inputs.
	FormatYAML
)

// FormatFromPath picks the input format from a file path or URL extension.
func FormatFromPath(path string) (format Format) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		format = FormatJSON
	}
	return format
}

// Parse decodes a profile document. Object key order is preserved, so skill
// categories come out in the order they were written.
func Parse(data []byte, format Format) (p Profile, err error) {
	jsonData := data
	if format == FormatYAML {
		jsonData, err = yamlToJSON(data)
		if err != nil {
			return p, err
		}
	}

	if !gjson.ValidBytes(jsonData) {
		err = &ParseError{Reason: "not valid JSON"}
		return p, err
	}

	root := gjson.ParseBytes(jsonData)
	if !root.IsObject() {
		err = &ParseError{Reason: "top level must be an object"}
		return p, err
	}

	p.Personal, err = parsePersonal(field(root, "personal"))
	if err != nil {
		return p, err
	}

	p.Summary, err = optionalField(root, "summary", false)
	if err != nil {
		return p, err
	}

	p.Skills, err = parseSkills(field(root, "skills"))
	if err != nil {
		return p, err
	}

	p.Experience, err = parseExperience(field(root, "experience"))
	if err != nil {
		return p, err
	}

	p.Education, err = parseEducation(field(root, "education"))
	if err != nil {
		return p, err
	}

	p.Certifications, err = stringList(field(root, "certifications"), "certifications")
	if err != nil {
		return p, err
	}

	p.Languages, err = parseLanguages(field(root, "languages"))
	return p, err
}

func parsePersonal(r gjson.Result) (personal Personal, err error) {
	if !present(r) {
		return personal, err
	}
	if !r.IsObject() {
		err = &ParseError{Path: "personal", Reason: "must be an object"}
		return personal, err
	}

	personal.Name, err = stringField(r, "name", "personal.name")
	if err != nil {
		return personal, err
	}
	personal.Title, err = stringField(r, "title", "personal.title")
	if err != nil {
		return personal, err
	}

	targets := []struct {
		key string
		dst *Optional[string]
	}{
		{"email", &personal.Email},
		{"phone", &personal.Phone},
		{"location", &personal.Location},
		{"github", &personal.GitHub},
		{"linkedin", &personal.LinkedIn},
		{"portfolio", &personal.Portfolio},
	}
	for _, t := range targets {
		*t.dst, err = optionalField(r, t.key, true)
		if err != nil {
			err = errors.Wrap(err, "personal")
			return personal, err
		}
	}

	return personal, err
}

func parseSkills(r gjson.Result) (skills []SkillCategory, err error) {
	if !present(r) {
		return skills, err
	}
	if !r.IsObject() {
		err = &ParseError{Path: "skills", Reason: "must be an object of category to skills"}
		return skills, err
	}

	// A repeated category keeps its first position and its last value.
	var names []string
	values := make(map[string]string)

	r.ForEach(func(key, value gjson.Result) bool {
		path := "skills." + key.String()
		var joined string
		switch {
		case value.IsArray():
			var items []string
			items, err = stringList(value, path)
			joined = strings.Join(items, ", ")
		case value.Type == gjson.JSON:
			err = &ParseError{Path: path, Reason: "must be a string or a list of strings"}
		default:
			joined = strings.TrimSpace(value.String())
		}
		if err != nil {
			return false
		}
		name := strings.TrimSpace(key.String())
		if _, seen := values[name]; !seen {
			names = append(names, name)
		}
		values[name] = joined
		return true
	})
	if err != nil {
		return skills, err
	}

	for _, name := range names {
		if values[name] == "" {
			continue
		}
		skills = append(skills, SkillCategory{Name: name, Skills: values[name]})
	}

	return skills, err
}

func parseExperience(r gjson.Result) (entries []Experience, err error) {
	items, err := arrayOf(r, "experience")
	if err != nil {
		return entries, err
	}

	for i, item := range items {
		path := fmt.Sprintf("experience[%d]", i)
		if !item.IsObject() {
			err = &ParseError{Path: path, Reason: "must be an object"}
			return entries, err
		}

		var e Experience
		fields := []struct {
			key string
			dst *string
		}{
			{"title", &e.Title},
			{"company", &e.Company},
			{"location", &e.Location},
			{"dates", &e.Dates},
		}
		for _, f := range fields {
			*f.dst, err = stringField(item, f.key, path+"."+f.key)
			if err != nil {
				return entries, err
			}
		}

		e.Achievements, err = stringList(field(item, "achievements"), path+".achievements")
		if err != nil {
			return entries, err
		}

		entries = append(entries, e)
	}

	return entries, err
}

func parseEducation(r gjson.Result) (entries []Education, err error) {
	items, err := arrayOf(r, "education")
	if err != nil {
		return entries, err
	}

	for i, item := range items {
		path := fmt.Sprintf("education[%d]", i)
		if !item.IsObject() {
			err = &ParseError{Path: path, Reason: "must be an object"}
			return entries, err
		}

		var e Education
		e.Degree, err = stringField(item, "degree", path+".degree")
		if err != nil {
			return entries, err
		}
		e.Institution, err = stringField(item, "institution", path+".institution")
		if err != nil {
			return entries, err
		}
		e.Dates, err = stringField(item, "dates", path+".dates")
		if err != nil {
			return entries, err
		}
		e.Details, err = optionalField(item, "details", true)
		if err != nil {
			err = errors.Wrap(err, path)
			return entries, err
		}

		entries = append(entries, e)
	}

	return entries, err
}

func parseLanguages(r gjson.Result) (entries []LanguageSkill, err error) {
	items, err := arrayOf(r, "languages")
	if err != nil {
		return entries, err
	}

	for i, item := range items {
		path := fmt.Sprintf("languages[%d]", i)
		if !item.IsObject() {
			err = &ParseError{Path: path, Reason: "must be an object with language and level"}
			return entries, err
		}

		var l LanguageSkill
		l.Language, err = stringField(item, "language", path+".language")
		if err != nil {
			return entries, err
		}
		l.Level, err = stringField(item, "level", path+".level")
		if err != nil {
			return entries, err
		}

		entries = append(entries, l)
	}

	return entries, err
}

// field returns the value of the last occurrence of key in the object parent,
// so a repeated key overrides earlier ones as it does for other JSON decoders.
func field(parent gjson.Result, key string) (r gjson.Result) {
	parent.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			r = v
		}
		return true
	})
	return r
}

// present reports whether r holds a non-null value.
func present(r gjson.Result) (ok bool) {
	ok = r.Exists() && r.Type != gjson.Null
	return ok
}

func arrayOf(r gjson.Result, path string) (items []gjson.Result, err error) {
	if !present(r) {
		return items, err
	}
	if !r.IsArray() {
		err = &ParseError{Path: path, Reason: "must be a list"}
		return items, err
	}
	items = r.Array()
	return items, err
}

// stringField returns the trimmed scalar at key, or "" when absent.
func stringField(parent gjson.Result, key, path string) (s string, err error) {
	r := field(parent, key)
	if !present(r) {
		return s, err
	}
	if r.Type == gjson.JSON {
		err = &ParseError{Path: path, Reason: "must be a string"}
		return s, err
	}
	s = strings.TrimSpace(r.String())
	return s, err
}

// optionalField returns Some only for a non-blank scalar. Summary text keeps
// its original spacing; everything else is trimmed.
func optionalField(parent gjson.Result, key string, trim bool) (o Optional[string], err error) {
	r := field(parent, key)
	if !present(r) {
		return o, err
	}
	if r.Type == gjson.JSON {
		err = &ParseError{Path: key, Reason: "must be a string"}
		return o, err
	}

	s := r.String()
	if strings.TrimSpace(s) == "" {
		return o, err
	}
	if trim {
		s = strings.TrimSpace(s)
	}
	o = Some(s)
	return o, err
}

// stringList returns the non-blank strings of an array, in order.
func stringList(r gjson.Result, path string) (list []string, err error) {
	items, err := arrayOf(r, path)
	if err != nil {
		return list, err
	}

	for i, item := range items {
		if item.Type == gjson.JSON {
			err = &ParseError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: "must be a string"}
			return list, err
		}
		s := strings.TrimSpace(item.String())
		if s == "" {
			continue
		}
		list = append(list, s)
	}

	return list, err
}

// yamlToJSON re-encodes a YAML document as JSON, keeping mapping key order.
func yamlToJSON(data []byte) (out []byte, err error) {
	var root yaml.Node
	err = yaml.Unmarshal(data, &root)
	if err != nil {
		err = &ParseError{Reason: "not valid YAML: " + err.Error()}
		return out, err
	}

	if root.Kind == 0 {
		err = &ParseError{Reason: "empty document"}
		return out, err
	}

	var buf bytes.Buffer
	err = writeJSONNode(&buf, &root)
	if err != nil {
		return out, err
	}

	out = buf.Bytes()
	return out, err
}

func writeJSONNode(buf *bytes.Buffer, node *yaml.Node) (err error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return err
		}
		err = writeJSONNode(buf, node.Content[0])

	case yaml.AliasNode:
		err = writeJSONNode(buf, node.Alias)

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			var key []byte
			key, err = json.Marshal(node.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			err = writeJSONNode(buf, node.Content[i+1])
			if err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			err = writeJSONNode(buf, child)
			if err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case yaml.ScalarNode:
		err = writeJSONScalar(buf, node)

	default:
		err = &ParseError{Reason: fmt.Sprintf("unsupported YAML node at line %d", node.Line)}
	}

	return err
}

func writeJSONScalar(buf *bytes.Buffer, node *yaml.Node) (err error) {
	var encoded []byte
	switch node.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return err
	case "!!bool", "!!int", "!!float":
		var v interface{}
		err = node.Decode(&v)
		if err != nil {
			err = errors.Wrapf(err, "failed to decode YAML scalar at line %d", node.Line)
			return err
		}
		encoded, err = json.Marshal(v)
		if err != nil {
			// .inf and .nan have no JSON form; keep the literal text.
			encoded, err = json.Marshal(node.Value)
		}
	default:
		encoded, err = json.Marshal(node.Value)
	}
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return err
}
