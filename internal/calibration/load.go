package calibration

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hplusminus/domain/core"

	"github.com/sbinet/npyio"
)

// Kind distinguishes the two arrays that define a spline.
type Kind string

const (
	KindKnots  Kind = "knots"
	KindCoeffs Kind = "coeffs"
)

// Format is an on-disk array encoding.
type Format string

const (
	FormatNPY  Format = "npy"
	FormatText Format = "txt"
)

// FileName returns the base name "<kind>_<key>_<parameter>" of a resource.
func FileName(kind Kind, key Key, param Parameter) string {
	return fmt.Sprintf("%s_%s_%s", kind, key, param)
}

// Load reads every spline of every family from dir. Each array is looked up as
// <name>.npy, then <name>.txt, then <name> without extension (read as text).
func Load(dir string) (*Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("calibration directory %s: %w", dir, errors.Join(core.ErrCalibrationMissing, err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("calibration path %s is not a directory: %w", dir, core.ErrCalibrationMissing)
	}

	splines := make(map[Key][3]*BSpline, len(Keys))
	for _, key := range Keys {
		var set [3]*BSpline
		for i, param := range Parameters {
			knots, err := readArray(dir, FileName(KindKnots, key, param))
			if err != nil {
				return nil, err
			}
			coeffs, err := readArray(dir, FileName(KindCoeffs, key, param))
			if err != nil {
				return nil, err
			}
			s, err := NewBSpline(knots, coeffs, Degree)
			if err != nil {
				return nil, fmt.Errorf("spline %s_%s in %s: %w", key, param, dir, err)
			}
			set[i] = s
		}
		splines[key] = set
	}
	return NewModel(dir, splines)
}

func readArray(dir, name string) ([]float64, error) {
	candidates := []struct {
		path   string
		format Format
	}{
		{filepath.Join(dir, name+".npy"), FormatNPY},
		{filepath.Join(dir, name+".txt"), FormatText},
		{filepath.Join(dir, name), FormatText},
	}

	for _, c := range candidates {
		f, err := os.Open(c.path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", c.path, errors.Join(core.ErrCalibrationMissing, err))
		}
		values, err := decodeArray(f, c.format)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.path, errors.Join(core.ErrCalibrationData, err))
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%s is empty: %w", c.path, core.ErrCalibrationData)
		}
		return values, nil
	}
	return nil, fmt.Errorf("%s not found in %s: %w", name, dir, core.ErrCalibrationMissing)
}

func decodeArray(r io.Reader, format Format) ([]float64, error) {
	switch format {
	case FormatNPY:
		var values []float64
		if err := npyio.Read(r, &values); err != nil {
			return nil, err
		}
		return values, nil
	case FormatText:
		return readTextArray(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// readTextArray parses whitespace separated numbers; '#' starts a comment.
func readTextArray(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, field := range strings.Fields(text) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			values = append(values, v)
		}
	}
	return values, scanner.Err()
}

// Export writes every spline of m to dir in the given format, using the same
// file names Load expects.
func Export(m *Model, dir string, format Format) error {
	if format != FormatNPY && format != FormatText {
		return fmt.Errorf("export format %q: %w", format, core.ErrInvalidArgument)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, key := range Keys {
		for i, param := range Parameters {
			s := m.splines[key][i]
			if err := writeArray(dir, FileName(KindKnots, key, param), format, s.Knots); err != nil {
				return err
			}
			if err := writeArray(dir, FileName(KindCoeffs, key, param), format, s.Coeffs); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeArray(dir, name string, format Format, values []float64) (err error) {
	path := filepath.Join(dir, name+"."+string(format))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == FormatNPY {
		return npyio.Write(f, values)
	}
	w := bufio.NewWriter(f)
	for _, v := range values {
		if _, err := fmt.Fprintln(w, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return w.Flush()
}
