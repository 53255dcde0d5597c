// Package output implements the CSV frame sink of spec.md §6.2, grounded
// on the pack's own use of encoding/csv for simulation logging (see
// other_examples/RonanGreen1-ConDev__test.go and other_examples/
// yimei-li-spatial-dynamics__mdbk_small_vero_0818.go).
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/0x5844/colonysim/internal/population"
)

var header = []string{
	"agent_id", "tick_num", "agent_type", "pos_X", "pos_Y",
	"diameter", "length", "orientation_X", "orientation_Y",
}

const separatorRow = "########################################"
const maxLinesPerFile = 100000

// Sink writes one CSV row per particle per tick, rotating to a new
// simulation_output_part_NNN.csv file after a separator row once the
// current file's line count reaches maxLinesPerFile.
type Sink struct {
	dir      string
	partNum  int
	lines    int
	file     *os.File
	writer   *csv.Writer
}

// New creates a Sink writing into dir, opening part 000 immediately.
func New(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output: create dir: %w", err)
	}
	s := &Sink{dir: dir}
	if err := s.openPart(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) openPart() error {
	name := filepath.Join(s.dir, fmt.Sprintf("simulation_output_part_%03d.csv", s.partNum))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("output: open %s: %w", name, err)
	}
	s.file = f
	s.writer = csv.NewWriter(f)
	s.lines = 0
	if err := s.writer.Write(header); err != nil {
		return fmt.Errorf("output: write header: %w", err)
	}
	s.lines++
	return nil
}

// WriteFrame emits one row per particle in list order, then a separator
// row, for the given tick number.
func (s *Sink) WriteFrame(tick int, particles []population.Particle) error {
	for _, p := range particles {
		row, err := particleRow(tick, &p)
		if err != nil {
			return err
		}
		if err := s.writer.Write(row); err != nil {
			return fmt.Errorf("output: write row: %w", err)
		}
		s.lines++
	}
	if err := s.writer.Write([]string{separatorRow}); err != nil {
		return fmt.Errorf("output: write separator: %w", err)
	}
	s.lines++
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("output: flush: %w", err)
	}

	if s.lines >= maxLinesPerFile {
		if err := s.rotate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) rotate() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("output: close part: %w", err)
	}
	s.partNum++
	return s.openPart()
}

// Close flushes and closes the current part file.
func (s *Sink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("output: final flush: %w", err)
	}
	return s.file.Close()
}

func particleRow(tick int, p *population.Particle) ([]string, error) {
	var kind string
	var diameter, length float64
	switch p.Kind {
	case population.KindCell:
		kind = "cell"
		diameter = p.Diameter
		length = p.Length
	case population.KindEps:
		kind = "eps"
		diameter = p.EpsDiameter()
		length = 0
	default:
		return nil, fmt.Errorf("output: unknown particle kind %v", p.Kind)
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		strconv.Itoa(tick),
		kind,
		strconv.FormatFloat(p.Position.X, 'g', -1, 64),
		strconv.FormatFloat(p.Position.Y, 'g', -1, 64),
		strconv.FormatFloat(diameter, 'g', -1, 64),
		strconv.FormatFloat(length, 'g', -1, 64),
		strconv.FormatFloat(p.Orientation.X, 'g', -1, 64),
		strconv.FormatFloat(p.Orientation.Y, 'g', -1, 64),
	}, nil
}
