package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlfuse/internal/queryir"
)

// Load reads a catalog from a directory of CUE files, a single .cue file,
// or a .yaml/.yml file.
func Load(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog: %v", err)}
	}
	if info.IsDir() {
		return LoadCUEDir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	switch filepath.Ext(path) {
	case ".cue":
		return ParseCUE(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("unsupported catalog format: %s", path)}
	}
}

// LoadCUEDir loads every CUE file of the package in dir.
func LoadCUEDir(dir string) (*Catalog, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return fromCUE(value)
}

// ParseCUE compiles a single CUE source.
func ParseCUE(src []byte, filename string) (*Catalog, error) {
	value := cuecontext.New().CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return fromCUE(value)
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func fromCUE(value cue.Value) (*Catalog, error) {
	catalog, _ := NewCatalog()

	tablesVal := value.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return catalog, nil
	}
	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating tables: %v", err), Pos: tablesVal.Pos()}
	}

	for iter.Next() {
		name := iter.Label()
		var defs []queryir.ColumnDef

		colIter, err := iter.Value().Fields()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("table %s: %v", name, err), Pos: iter.Value().Pos()}
		}
		for colIter.Next() {
			colName := colIter.Label()
			typeName, err := colIter.Value().String()
			if err != nil {
				return nil, &LoadError{
					Code:    ErrCodeInvalidType,
					Message: fmt.Sprintf("table %s column %s: type must be a string", name, colName),
					Pos:     colIter.Value().Pos(),
				}
			}
			kind, err := queryir.ParseKind(typeName)
			if err != nil {
				return nil, &LoadError{
					Code:    ErrCodeInvalidType,
					Message: fmt.Sprintf("table %s column %s: %v", name, colName, err),
					Pos:     colIter.Value().Pos(),
				}
			}
			defs = append(defs, queryir.ColumnDef{Name: colName, Kind: kind})
		}

		if len(defs) == 0 {
			return nil, &LoadError{Code: ErrCodeEmptyTable, Message: fmt.Sprintf("table %s has no columns", name), Pos: iter.Value().Pos()}
		}
		if err := catalog.add(queryir.NewTable(name, defs...)); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

type yamlCatalog struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name    string       `yaml:"name"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ParseYAML decodes a YAML catalog.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing YAML catalog: %v", err)}
	}

	catalog, _ := NewCatalog()
	for _, t := range doc.Tables {
		if t.Name == "" {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: "table without a name"}
		}
		if len(t.Columns) == 0 {
			return nil, &LoadError{Code: ErrCodeEmptyTable, Message: fmt.Sprintf("table %s has no columns", t.Name)}
		}
		defs := make([]queryir.ColumnDef, len(t.Columns))
		seen := make(map[string]bool, len(t.Columns))
		for i, col := range t.Columns {
			if seen[col.Name] {
				return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("table %s: duplicate column %q", t.Name, col.Name)}
			}
			seen[col.Name] = true
			kind, err := queryir.ParseKind(col.Type)
			if err != nil {
				return nil, &LoadError{Code: ErrCodeInvalidType, Message: fmt.Sprintf("table %s column %s: %v", t.Name, col.Name, err)}
			}
			defs[i] = queryir.ColumnDef{Name: col.Name, Kind: kind}
		}
		if err := catalog.add(queryir.NewTable(t.Name, defs...)); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
