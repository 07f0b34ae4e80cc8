package writer

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/flavor/go/apphost/pkg/apphost/binding"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
)

// RegionSymbol is the linker symbol of the marker region in a host binary.
const RegionSymbol = "github.com/provide-io/flavor/go/apphost/pkg/apphost/binding.region"

// Locate methods
const (
	LocatedByPlaceholder = "placeholder"
	LocatedBySymbol      = "symbol"
)

// Report describes the marker region of a host on disk.
type Report struct {
	Path    string
	Offset  int64
	Method  string
	Binding binding.Result
}

// Inspect finds the marker region in the host at path and classifies it the
// same way the host does at startup.
func Inspect(path string, logger hclog.Logger) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host: %w", err)
	}

	report := &Report{Path: path}
	offset, err := FindPlaceholder(data)
	switch {
	case err == nil:
		report.Offset, report.Method = int64(offset), LocatedByPlaceholder
	case errors.Is(err, apperrors.ErrPlaceholderNotFound):
		// Bound hosts no longer carry the placeholder
		symOffset, symErr := locateBySymbol(path)
		if symErr != nil {
			return nil, fmt.Errorf("%s: %w", path, symErr)
		}
		report.Offset, report.Method = symOffset, LocatedBySymbol
	default:
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("🔍 Located marker region", "offset", fmt.Sprintf("0x%x", report.Offset), "method", report.Method)

	if report.Offset >= int64(len(data)) {
		return nil, fmt.Errorf("%w: offset 0x%x beyond end of file", apperrors.ErrRegionNotFound, report.Offset)
	}
	end := min(report.Offset+int64(binding.Capacity), int64(len(data)))
	report.Binding = binding.Classify(binding.Bytes(data[report.Offset:end]))
	return report, nil
}

// locateBySymbol maps the region symbol to a file offset using the symbol
// table of an ELF, PE or Mach-O executable.
func locateBySymbol(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	for _, locate := range []func(io.ReaderAt) (int64, bool){elfSymbolOffset, peSymbolOffset, machoSymbolOffset} {
		if off, ok := locate(f); ok {
			return off, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s symbol (stripped or not a host)", apperrors.ErrRegionNotFound, RegionSymbol)
}

func elfSymbolOffset(r io.ReaderAt) (int64, bool) {
	f, err := elf.NewFile(r)
	if err != nil {
		return 0, false
	}
	syms, err := f.Symbols()
	if err != nil {
		return 0, false
	}
	for _, sym := range syms {
		if sym.Name != RegionSymbol {
			continue
		}
		for _, sect := range f.Sections {
			if sect.Type == elf.SHT_NOBITS {
				continue
			}
			if sym.Value >= sect.Addr && sym.Value < sect.Addr+sect.Size {
				return int64(sect.Offset + (sym.Value - sect.Addr)), true
			}
		}
	}
	return 0, false
}

func peSymbolOffset(r io.ReaderAt) (int64, bool) {
	f, err := pe.NewFile(r)
	if err != nil {
		return 0, false
	}
	for _, sym := range f.Symbols {
		if sym.Name != RegionSymbol {
			continue
		}
		idx := int(sym.SectionNumber) - 1
		if idx < 0 || idx >= len(f.Sections) {
			return 0, false
		}
		return int64(f.Sections[idx].Offset) + int64(sym.Value), true
	}
	return 0, false
}

func machoSymbolOffset(r io.ReaderAt) (int64, bool) {
	f, err := macho.NewFile(r)
	if err != nil || f.Symtab == nil {
		return 0, false
	}
	for _, sym := range f.Symtab.Syms {
		if sym.Name != RegionSymbol && sym.Name != "_"+RegionSymbol {
			continue
		}
		idx := int(sym.Sect) - 1
		if idx < 0 || idx >= len(f.Sections) {
			return 0, false
		}
		sect := f.Sections[idx]
		return int64(sect.Offset) + int64(sym.Value-sect.Addr), true
	}
	return 0, false
}
