package ledger

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

const HARDENED = 0x80000000

// Number of path components the device firmware expects
const PathDepth = 5

var matchSections = regexp.MustCompile(`/(\d+)([hH']?)`)

// EncodeBipPath takes a well-formatted BIP32 string path of exactly five
// components (ie: "m/44'/626'/0'/0/0") and converts it to its on-wire binary
// form: one depth byte followed by a big-endian uint32 per component.
// Returns []byte on success, otherwise error
func EncodeBipPath(path string) ([]byte, error) {

	// https://github.com/satoshilabs/slips/blob/master/slip-0044.md
	// 44 references BIP44 policy; 626 is the Kadena 'coin'; the remaining
	// sections are account, change and address index

	// Explode path on each section
	sections := matchSections.FindAllStringSubmatch(path, PathDepth)

	if len(sections) != PathDepth {
		return nil, errors.Errorf("Expected %d path components; got %d", PathDepth, len(sections))
	}

	pathBytes := []byte{PathDepth}

	for _, section := range sections {

		if len(section) != 3 {
			return nil, errors.New("Not enough sections")
		}

		// Convert the numeric part of the section
		val, e := strconv.Atoi(section[1])
		if e != nil {
			return nil, e
		}

		if val >= HARDENED {
			return nil, errors.New("Invalid child index")
		}

		// Determine if last character of section is h, H, or '
		// indicating if this is "hardened" or not
		if section[2] == "h" || section[2] == "H" || section[2] == "'" {
			val = val + HARDENED
		} else if len(section[2]) != 0 {
			return nil, errors.New("Invalid modifier")
		}

		var component = make([]byte, 4)
		binary.BigEndian.PutUint32(component, uint32(val))
		pathBytes = append(pathBytes, component...)
	}

	return pathBytes, nil
}

// DecodeBipPath decodes a byte-slice representing a Bip32 path into a string
// representation. Does the opposite of EncodeBipPath()
func DecodeBipPath(pathBytes []byte) (string, error) {

	if len(pathBytes) == 0 {
		return "", errors.New("Invalid Bip Path Length")
	}

	// Get the number of path parts (ie: depth)
	length := int(pathBytes[0])

	// 4 bytes per component + initial depth byte
	if len(pathBytes) < 1+length*4 {
		return "", errors.New("Invalid Bip Path Length")
	}

	path := ""

	for i := 1; i < 1+length*4; i += 4 {

		v := binary.BigEndian.Uint32(pathBytes[i : i+4])

		h := ""
		if pathBytes[i]&0x80 != 0 {
			h = "'"
			v = v - HARDENED
		}

		path += fmt.Sprintf("/%d%s", v, h)
	}

	return path, nil
}
