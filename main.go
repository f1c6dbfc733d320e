package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/voxelsplace/voxels/utils"
)

func usage() {
	fmt.Println("Usage: voxeltool <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  gensphere w d h radius out.vxlg        (empty grid + centered solid sphere)")
	fmt.Println("  genterrain w seed out.vxlg             (density-seeded w*w*w terrain grid)")
	fmt.Println("  carve in.vxlg out.vxlg x y z radius    (subtract a sphere from a grid)")
	fmt.Println("  info in.vxlg                           (print packed grid stats)")
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

func parseF32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	fail := func(err error) {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "gensphere":
		if len(os.Args) != 7 {
			usage()
			os.Exit(1)
		}
		w, err := parseU32(os.Args[2])
		if err != nil {
			fail(err)
		}
		d, err := parseU32(os.Args[3])
		if err != nil {
			fail(err)
		}
		h, err := parseU32(os.Args[4])
		if err != nil {
			fail(err)
		}
		r, err := parseF32(os.Args[5])
		if err != nil {
			fail(err)
		}
		if err := utils.RunGenSphere(w, d, h, r, os.Args[6]); err != nil {
			fail(err)
		}
	case "genterrain":
		if len(os.Args) != 5 {
			usage()
			os.Exit(1)
		}
		w, err := parseU32(os.Args[2])
		if err != nil {
			fail(err)
		}
		seed, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			fail(err)
		}
		if err := utils.RunGenTerrain(w, seed, os.Args[4]); err != nil {
			fail(err)
		}
	case "carve":
		if len(os.Args) != 8 {
			usage()
			os.Exit(1)
		}
		var coords [4]float32
		for i, arg := range os.Args[4:8] {
			v, err := parseF32(arg)
			if err != nil {
				fail(err)
			}
			coords[i] = v
		}
		if err := utils.RunCarve(os.Args[2], os.Args[3], coords[0], coords[1], coords[2], coords[3]); err != nil {
			fail(err)
		}
	case "info":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunInfo(os.Args[2]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(1)
	}
}
