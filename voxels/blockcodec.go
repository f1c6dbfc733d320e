package voxels

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Block payload encodings. The first payload byte selects the scheme; the
// high bit marks a zlib-compressed body.
const (
	encUniform = 0 // one cell repeated extent³ times: 3 bytes
	encRLE     = 1 // (uvarint run, distance, material, blend) records in Morton order
	encSparse  = 2 // non-default occupancy bits, then non-default cells in Morton order
	encDense   = 3 // raw cell triples in Morton order
	encZlib    = 0x80
)

type encoded struct {
	encoding byte
	payload  []byte
}

func encodeUniform(bd *BlockData) ([]byte, bool) {
	d0, m0, b0 := bd.Distance[0], bd.Material[0], bd.Blend[0]
	for i := 1; i < len(bd.Distance); i++ {
		if bd.Distance[i] != d0 || bd.Material[i] != m0 || bd.Blend[i] != b0 {
			return nil, false
		}
	}
	return []byte{byte(d0), m0, b0}, true
}

func encodeRLE(bd *BlockData, order []int) []byte {
	out := make([]byte, 0, 64)
	run := 0
	var rd int8
	var rm MaterialId
	var rb BlendFactor
	flush := func() {
		if run == 0 {
			return
		}
		out = writeUVarint(out, uint32(run))
		out = append(out, byte(rd), rm, rb)
	}
	for _, i := range order {
		d, m, b := bd.Distance[i], bd.Material[i], bd.Blend[i]
		if run > 0 && d == rd && m == rm && b == rb {
			run++
			continue
		}
		flush()
		rd, rm, rb = d, m, b
		run = 1
	}
	flush()
	return out
}

func encodeSparse(bd *BlockData, order []int) []byte {
	bw := newBitWriter(len(order)/8 + 64)
	cells := make([]byte, 0, 3*len(order)/4)
	for _, i := range order {
		if bd.Distance[i] == defaultDistance && bd.Material[i] == defaultMaterial && bd.Blend[i] == defaultBlend {
			bw.writeBit(0)
			continue
		}
		bw.writeBit(1)
		cells = append(cells, byte(bd.Distance[i]), bd.Material[i], bd.Blend[i])
	}
	bw.writeBytes(cells)
	return bw.bytes()
}

func encodeDense(bd *BlockData, order []int) []byte {
	out := make([]byte, 0, 3*len(order))
	for _, i := range order {
		out = append(out, byte(bd.Distance[i]), bd.Material[i], bd.Blend[i])
	}
	return out
}

func zlibCompress(b []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

func zlibDecompress(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// compressBlock encodes the dense cells into the smallest candidate payload,
// also considering zlib-compressed variants of each.
func compressBlock(bd *BlockData, extent int) []byte {
	if p, ok := encodeUniform(bd); ok {
		return append([]byte{encUniform}, p...)
	}
	order := mortonOrder(extent)
	candidates := []encoded{
		{encoding: encRLE, payload: encodeRLE(bd, order)},
		{encoding: encSparse, payload: encodeSparse(bd, order)},
		{encoding: encDense, payload: encodeDense(bd, order)},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.payload) < len(best.payload) {
			best = c
		}
	}
	for _, c := range candidates {
		zb := zlibCompress(c.payload)
		if len(zb) < len(best.payload) {
			best = encoded{encoding: c.encoding | encZlib, payload: zb}
		}
	}
	out := make([]byte, 0, 1+len(best.payload))
	out = append(out, best.encoding)
	return append(out, best.payload...)
}

// decompressBlock decodes a payload produced by compressBlock into dst,
// overwriting every cell. Any structural problem reports ErrCorruptBlockData.
func decompressBlock(payload []byte, extent int, dst *BlockData) error {
	if len(payload) < 1 {
		return fmt.Errorf("%w: empty payload", ErrCorruptBlockData)
	}
	enc := payload[0]
	body := payload[1:]
	if enc&encZlib != 0 {
		var err error
		body, err = zlibDecompress(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptBlockData, err)
		}
		enc &^= encZlib
	}
	total := extent * extent * extent
	switch enc {
	case encUniform:
		if len(body) != 3 {
			return fmt.Errorf("%w: uniform payload is %d bytes", ErrCorruptBlockData, len(body))
		}
		d, m, b := int8(body[0]), body[1], body[2]
		for i := 0; i < total; i++ {
			dst.Distance[i] = d
			dst.Material[i] = m
			dst.Blend[i] = b
		}
	case encRLE:
		order := mortonOrder(extent)
		pos := 0
		filled := 0
		for filled < total {
			run, err := readUVarint(body, &pos)
			if err != nil || run == 0 || pos+3 > len(body) {
				return fmt.Errorf("%w: malformed run at cell %d", ErrCorruptBlockData, filled)
			}
			d, m, b := int8(body[pos]), body[pos+1], body[pos+2]
			pos += 3
			if filled+int(run) > total {
				return fmt.Errorf("%w: run overflows block", ErrCorruptBlockData)
			}
			for j := 0; j < int(run); j++ {
				i := order[filled]
				dst.Distance[i] = d
				dst.Material[i] = m
				dst.Blend[i] = b
				filled++
			}
		}
		if pos != len(body) {
			return fmt.Errorf("%w: %d trailing payload bytes", ErrCorruptBlockData, len(body)-pos)
		}
	case encSparse:
		order := mortonOrder(extent)
		br := newBitReader(body)
		occupied := make([]bool, total)
		count := 0
		for k := 0; k < total; k++ {
			bit, err := br.readBit()
			if err != nil {
				return fmt.Errorf("%w: short occupancy bitmap", ErrCorruptBlockData)
			}
			if bit != 0 {
				occupied[k] = true
				count++
			}
		}
		cells, err := br.readBytes(3 * count)
		if err != nil {
			return fmt.Errorf("%w: short sparse cell section", ErrCorruptBlockData)
		}
		if br.pos != len(body) {
			return fmt.Errorf("%w: %d trailing payload bytes", ErrCorruptBlockData, len(body)-br.pos)
		}
		p := 0
		for k := 0; k < total; k++ {
			i := order[k]
			if !occupied[k] {
				dst.Distance[i] = defaultDistance
				dst.Material[i] = defaultMaterial
				dst.Blend[i] = defaultBlend
				continue
			}
			dst.Distance[i] = int8(cells[p])
			dst.Material[i] = cells[p+1]
			dst.Blend[i] = cells[p+2]
			p += 3
		}
	case encDense:
		if len(body) != 3*total {
			return fmt.Errorf("%w: dense payload is %d bytes, want %d", ErrCorruptBlockData, len(body), 3*total)
		}
		order := mortonOrder(extent)
		for k := 0; k < total; k++ {
			i := order[k]
			dst.Distance[i] = int8(body[3*k])
			dst.Material[i] = body[3*k+1]
			dst.Blend[i] = body[3*k+2]
		}
	default:
		return fmt.Errorf("%w: unknown encoding %d", ErrCorruptBlockData, enc)
	}
	return nil
}
