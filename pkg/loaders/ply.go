package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidPLY is returned for PLY data that is malformed or uses unsupported features
var ErrInvalidPLY = errors.New("invalid PLY data")

// PLYData contains the geometry loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices, 3 per triangle. Polygons are fan triangulated.
	Normals  []core.Vec3 // Per-vertex normals, empty if not present
	Colors   []core.Vec3 // Per-vertex colors in [0,1], empty if not present
}

// TriangleCount returns the number of triangles in Faces
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// plyProperty is a property line from the header
type plyProperty struct {
	name     string
	dataType string // Scalar type, or the item type of a list
	listType string // Count type, empty for scalar properties
}

type plyElement struct {
	name       string
	count      int
	properties []plyProperty
}

type plyHeader struct {
	format   string
	elements []plyElement
}

// plySizes holds the byte size of every scalar type in the PLY format
var plySizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// Header counts are untrusted, so preallocation and list lengths are bounded
const (
	maxPLYPrealloc   = 1 << 16
	maxPLYListLength = 1 << 16
)

// LoadPLY loads a triangle mesh from an ascii or binary PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY decodes PLY data from r. Elements other than vertex and face are skipped.
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)
	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.format {
	case "ascii":
		values = &asciiValues{r: br}
	case "binary_little_endian":
		values = &binaryValues{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.format)
	}

	data := &PLYData{}
	for _, element := range header.elements {
		if err := readPLYElement(values, element, data); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidPLY, element.name, err)
		}
	}
	return data, nil
}

func parsePLYHeader(br *bufio.Reader) (*plyHeader, error) {
	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic line", ErrInvalidPLY)
	}

	header := &plyHeader{}
	for lineNumber := 2; ; lineNumber++ {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ends before end_header", ErrInvalidPLY)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			if header.format == "" {
				return nil, fmt.Errorf("%w: header has no format line", ErrInvalidPLY)
			}
			return header, nil
		case "comment", "obj_info":
		case "format":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: line %d: malformed format", ErrInvalidPLY, lineNumber)
			}
			header.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: line %d: malformed element", ErrInvalidPLY, lineNumber)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid element count %q", ErrInvalidPLY, lineNumber, fields[2])
			}
			header.elements = append(header.elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(header.elements) == 0 {
				return nil, fmt.Errorf("%w: line %d: property outside an element", ErrInvalidPLY, lineNumber)
			}
			property, err := parsePLYProperty(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidPLY, lineNumber, err)
			}
			current := &header.elements[len(header.elements)-1]
			current.properties = append(current.properties, property)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown keyword %q", ErrInvalidPLY, lineNumber, fields[0])
		}
	}
}

func parsePLYProperty(fields []string) (plyProperty, error) {
	if len(fields) >= 1 && fields[0] == "list" {
		if len(fields) < 4 {
			return plyProperty{}, errors.New("malformed list property")
		}
		property := plyProperty{listType: fields[1], dataType: fields[2], name: fields[3]}
		for _, typ := range []string{property.listType, property.dataType} {
			if _, ok := plySizes[typ]; !ok {
				return plyProperty{}, fmt.Errorf("unknown type %q", typ)
			}
		}
		return property, nil
	}

	if len(fields) < 2 {
		return plyProperty{}, errors.New("malformed property")
	}
	if _, ok := plySizes[fields[0]]; !ok {
		return plyProperty{}, fmt.Errorf("unknown type %q", fields[0])
	}
	return plyProperty{dataType: fields[0], name: fields[1]}, nil
}

func readPLYElement(values plyValueReader, element plyElement, data *PLYData) error {
	switch element.name {
	case "vertex":
		return readPLYVertices(values, element, data)
	case "face":
		return readPLYFaces(values, element, data)
	}

	for i := 0; i < element.count; i++ {
		for _, property := range element.properties {
			if _, err := readPLYProperty(values, property); err != nil {
				return err
			}
		}
	}
	return nil
}

func readPLYVertices(values plyValueReader, element plyElement, data *PLYData) error {
	present := make(map[string]bool, len(element.properties))
	for _, property := range element.properties {
		present[property.name] = true
	}
	if !present["x"] || !present["y"] || !present["z"] {
		return errors.New("vertex element needs x, y and z")
	}
	hasNormals := present["nx"] && present["ny"] && present["nz"]
	hasColors := present["red"] && present["green"] && present["blue"]

	data.Vertices = make([]core.Vec3, 0, min(element.count, maxPLYPrealloc))
	for i := 0; i < element.count; i++ {
		var position, normal, color core.Vec3
		for _, property := range element.properties {
			list, err := readPLYProperty(values, property)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			if property.listType != "" {
				continue
			}
			value := list[0]

			switch property.name {
			case "x":
				position.X = value
			case "y":
				position.Y = value
			case "z":
				position.Z = value
			case "nx":
				normal.X = value
			case "ny":
				normal.Y = value
			case "nz":
				normal.Z = value
			case "red", "green", "blue":
				if property.dataType == "uchar" || property.dataType == "uint8" {
					value /= 255
				}
				switch property.name {
				case "red":
					color.X = value
				case "green":
					color.Y = value
				default:
					color.Z = value
				}
			}
		}

		data.Vertices = append(data.Vertices, position)
		if hasNormals {
			data.Normals = append(data.Normals, normal)
		}
		if hasColors {
			data.Colors = append(data.Colors, color)
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, element plyElement, data *PLYData) error {
	for i := 0; i < element.count; i++ {
		for _, property := range element.properties {
			list, err := readPLYProperty(values, property)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if property.listType == "" || (property.name != "vertex_indices" && property.name != "vertex_index") {
				continue
			}
			if len(list) < 3 {
				return fmt.Errorf("face %d has %d vertices", i, len(list))
			}

			// Fan triangulation around the first vertex
			for j := 1; j+1 < len(list); j++ {
				data.Faces = append(data.Faces, int(list[0]), int(list[j]), int(list[j+1]))
			}
		}
	}
	return nil
}

// readPLYProperty reads one scalar, returned as a single element slice, or one list
func readPLYProperty(values plyValueReader, property plyProperty) ([]float64, error) {
	if property.listType == "" {
		value, err := values.next(property.dataType)
		if err != nil {
			return nil, err
		}
		return []float64{value}, nil
	}

	count, err := values.next(property.listType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > maxPLYListLength || count != math.Trunc(count) {
		return nil, fmt.Errorf("invalid list length %v", count)
	}

	list := make([]float64, int(count))
	for i := range list {
		if list[i], err = values.next(property.dataType); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// plyValueReader yields the body's scalars one at a time
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type asciiValues struct {
	r      *bufio.Reader
	fields []string
}

func (a *asciiValues) next(dataType string) (float64, error) {
	for len(a.fields) == 0 {
		line, err := a.r.ReadString('\n')
		a.fields = strings.Fields(line)
		if err != nil && len(a.fields) == 0 {
			if errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}

	field := a.fields[0]
	a.fields = a.fields[1:]
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, field)
	}
	return value, nil
}

type binaryValues struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValues) next(dataType string) (float64, error) {
	buf := b.buf[:plySizes[dataType]]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default:
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}
