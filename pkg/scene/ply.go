package scene

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-lighttree/pkg/core"
)

// Mesh is an indexed triangle mesh
type Mesh struct {
	Vertices []core.Vec3
	Faces    [][3]int
}

// plyHeader represents the parsed header of a PLY file
type plyHeader struct {
	Format      string // "ascii" or "binary_little_endian"
	VertexCount int
	FaceCount   int
	VertexProps []plyProperty
	FaceProps   []plyProperty

	// Indices of x, y, z among the vertex properties
	positionIndices [3]int
}

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY reads the vertex positions and faces of a PLY file
func LoadPLY(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY reads an ascii or binary little-endian PLY stream. Polygons are
// split into triangle fans.
func ReadPLY(r io.Reader) (*Mesh, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}

	var mesh *Mesh
	switch header.Format {
	case "ascii":
		mesh, err = readASCIIPLY(reader, header)
	case "binary_little_endian":
		mesh, err = readBinaryPLY(reader, header)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}

	for i, face := range mesh.Faces {
		for _, index := range face {
			if index < 0 || index >= len(mesh.Vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidPLY, i, index, len(mesh.Vertices))
			}
		}
	}
	return mesh, nil
}

// parsePLYHeader parses the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{positionIndices: [3]int{-1, -1, -1}}
	var currentElement string

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 2 {
				header.Format = parts[1]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %s", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				return nil, fmt.Errorf("unsupported element: %s", currentElement)
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %v", err)
			}

			switch currentElement {
			case "vertex":
				if prop.IsList {
					return nil, fmt.Errorf("list property %s on vertices", prop.Name)
				}
				header.VertexProps = append(header.VertexProps, prop)
				switch prop.Name {
				case "x":
					header.positionIndices[0] = len(header.VertexProps) - 1
				case "y":
					header.positionIndices[1] = len(header.VertexProps) - 1
				case "z":
					header.positionIndices[2] = len(header.VertexProps) - 1
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			default:
				return nil, fmt.Errorf("property outside of an element")
			}
		default:
			return nil, fmt.Errorf("unknown header line: %s", line)
		}
	}

	for _, index := range header.positionIndices {
		if index < 0 {
			return nil, fmt.Errorf("vertices need x, y and z properties")
		}
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		return plyProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	if typeSize(parts[0]) == 0 {
		return plyProperty{}, fmt.Errorf("unsupported data type: %s", parts[0])
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

func readASCIIPLY(reader *bufio.Reader, header *plyHeader) (*Mesh, error) {
	mesh := &Mesh{
		Vertices: make([]core.Vec3, 0, header.VertexCount),
		Faces:    make([][3]int, 0, header.FaceCount),
	}

	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanWords)
	next := func() (float64, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		return strconv.ParseFloat(scanner.Text(), 64)
	}

	for i := 0; i < header.VertexCount; i++ {
		var position [3]float32
		for j := range header.VertexProps {
			value, err := next()
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %v", i, err)
			}
			for axis, index := range header.positionIndices {
				if index == j {
					position[axis] = float32(value)
				}
			}
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(position[0], position[1], position[2]))
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := next(); err != nil {
					return nil, fmt.Errorf("face %d: %v", i, err)
				}
				continue
			}

			count, err := next()
			if err != nil {
				return nil, fmt.Errorf("face %d: %v", i, err)
			}
			indices := make([]int, int(count))
			for k := range indices {
				value, err := next()
				if err != nil {
					return nil, fmt.Errorf("face %d: %v", i, err)
				}
				indices[k] = int(value)
			}
			if isVertexIndices(prop) {
				mesh.Faces = appendFan(mesh.Faces, indices)
			}
		}
	}
	return mesh, nil
}

func readBinaryPLY(reader *bufio.Reader, header *plyHeader) (*Mesh, error) {
	mesh := &Mesh{
		Vertices: make([]core.Vec3, 0, header.VertexCount),
		Faces:    make([][3]int, 0, header.FaceCount),
	}

	for i := 0; i < header.VertexCount; i++ {
		var position [3]float32
		for j, prop := range header.VertexProps {
			value, err := readScalar(reader, prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %v", i, err)
			}
			for axis, index := range header.positionIndices {
				if index == j {
					position[axis] = float32(value)
				}
			}
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(position[0], position[1], position[2]))
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := readScalar(reader, prop.Type); err != nil {
					return nil, fmt.Errorf("face %d: %v", i, err)
				}
				continue
			}

			count, err := readScalar(reader, prop.ListType)
			if err != nil {
				return nil, fmt.Errorf("face %d: %v", i, err)
			}
			indices := make([]int, int(count))
			for k := range indices {
				value, err := readScalar(reader, prop.DataType)
				if err != nil {
					return nil, fmt.Errorf("face %d: %v", i, err)
				}
				indices[k] = int(value)
			}
			if isVertexIndices(prop) {
				mesh.Faces = appendFan(mesh.Faces, indices)
			}
		}
	}
	return mesh, nil
}

func isVertexIndices(prop plyProperty) bool {
	return prop.Name == "vertex_indices" || prop.Name == "vertex_index"
}

// appendFan triangulates a convex polygon around its first vertex
func appendFan(faces [][3]int, polygon []int) [][3]int {
	for k := 2; k < len(polygon); k++ {
		faces = append(faces, [3]int{polygon[0], polygon[k-1], polygon[k]})
	}
	return faces
}

// readScalar reads one little-endian value of a PLY data type
func readScalar(reader io.Reader, dataType string) (float64, error) {
	size := typeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	var buf [8]byte
	if _, err := io.ReadFull(reader, buf[:size]); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(buf[:]))), nil
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(buf[:])), nil
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(buf[:]))), nil
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(buf[:])), nil
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))), nil
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
	}
}

// typeSize returns the size in bytes of a PLY data type, or 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}
