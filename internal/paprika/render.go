package paprika

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	key_name        = "name"
	key_source      = "source"
	key_source_url  = "source_url"
	key_description = "description"
	key_servings    = "servings"
	key_prep_time   = "prep_time"
	key_categories  = "categories"
	key_notes       = "notes"
	key_photo       = "photo"
	key_ingredients = "ingredients"
	key_directions  = "directions"
)

// words a YAML 1.1 reader would turn into booleans or null
var reservedPlainWords = map[string]bool{
	"~": true, "null": true, "true": true, "false": true,
	"yes": true, "no": true, "on": true, "off": true, "y": true, "n": true,
}

// needsQuoting reports whether `value` would not be read back verbatim as a plain
// YAML scalar.
func needsQuoting(value string) bool {
	if value == "" {
		return true
	}
	if strings.TrimSpace(value) != value {
		return true
	}
	if strings.ContainsAny(value, "\n\r\t") {
		return true
	}
	if strings.Contains(value, ": ") || strings.Contains(value, " #") || strings.HasSuffix(value, ":") {
		return true
	}
	if reservedPlainWords[strings.ToLower(value)] {
		return true
	}
	switch value[0] {
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return true
	case '-', '?', ':':
		return len(value) == 1 || value[1] == ' '
	}
	return false
}

func scalar(value string) string {
	if needsQuoting(value) {
		return strconv.Quote(value)
	}
	return value
}

func flowSequence(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

type recipeWriter struct {
	buf *bytes.Buffer
}

func (w recipeWriter) scalar(key, value string) {
	fmt.Fprintf(w.buf, "  %s: %s\n", key, scalar(value))
}

// block writes a literal block scalar, one indented line per element. Elements that
// span several lines are written as several indented lines.
func (w recipeWriter) block(key string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w.buf, "  %s: |\n", key)
	for _, item := range lines {
		for _, line := range strings.Split(item, "\n") {
			if line == "" {
				w.buf.WriteString("\n")
				continue
			}
			fmt.Fprintf(w.buf, "    %s\n", line)
		}
	}
}

func renderRecipe(buf *bytes.Buffer, r Recipe) {
	fmt.Fprintf(buf, "- %s: %s\n", key_name, scalar(r.Name))

	w := recipeWriter{buf: buf}
	if source, ok := r.Source.Get(); ok {
		w.scalar(key_source, source.Name)
		w.scalar(key_source_url, source.Url)
	}
	if description, ok := r.Description.Get(); ok {
		w.scalar(key_description, description)
	}
	if servings, ok := r.Servings.Get(); ok {
		w.scalar(key_servings, servings)
	}
	if prepTime, ok := r.PrepTime.Get(); ok {
		w.scalar(key_prep_time, prepTime)
	}
	if categories, ok := r.Categories.Get(); ok {
		fmt.Fprintf(buf, "  %s: %s\n", key_categories, flowSequence(categories))
	}
	w.block(key_notes, r.Notes)
	if photo, ok := r.Photo.Get(); ok {
		w.scalar(key_photo, photo)
	}
	w.block(key_ingredients, r.Ingredients)
	w.block(key_directions, r.Directions)
}

// Marshal renders every recipe of the collection in order.
func Marshal(c Collection) []byte {
	var buf bytes.Buffer
	for _, r := range c.recipes {
		renderRecipe(&buf, r)
	}
	return buf.Bytes()
}

func Render(w io.Writer, c Collection) error {
	_, err := w.Write(Marshal(c))
	return err
}

// WriteFile replaces the file at `path` with the rendered collection, the file is
// either fully written or left untouched.
func WriteFile(path string, c Collection) error {
	contents := Marshal(c)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".paprikaplate-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmpName, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
