package fs

import "encoding/binary"

// MBR partition support (SPEC §4.8): a V2 image may sit inside a
// single DOS partition table entry of type partitionType, letting a
// ZealFS image share a disk with other partitions. Only the classic
// 512-byte MBR layout is supported; GPT and extended partitions are
// out of scope.
const (
	mbrSize            = 512
	mbrPartitionTable  = 446
	mbrPartitionSize   = 16
	mbrPartitionCount  = 4
	mbrSignatureOffset = 510
	mbrSignatureLo     = 0x55
	mbrSignatureHi     = 0xAA
	partitionType      = 0x5A

	partStatusOff  = 0
	partTypeOff    = 4
	partLBAOff     = 8
	partCountOff   = 12
)

// FindPartition scans img (assumed to begin with a 512-byte MBR) for
// the first entry of type partitionType and returns the byte slice of
// img spanning that partition, ready to be passed to Load. If img has
// no valid MBR signature, it is treated as a raw (unpartitioned) image
// when its first byte is the ZealFS magic byte, spanning the whole of
// img; otherwise FindPartition returns CORRUPT.
func FindPartition(img []byte) ([]byte, error) {
	if len(img) < mbrSize {
		return nil, CORRUPT
	}
	if img[mbrSignatureOffset] != mbrSignatureLo || img[mbrSignatureOffset+1] != mbrSignatureHi {
		if img[0] == magicByte {
			return img, nil
		}
		return nil, CORRUPT
	}

	for i := 0; i < mbrPartitionCount; i++ {
		off := mbrPartitionTable + i*mbrPartitionSize
		entry := img[off : off+mbrPartitionSize]
		if entry[partTypeOff] != partitionType {
			continue
		}
		lba := binary.LittleEndian.Uint32(entry[partLBAOff : partLBAOff+4])
		count := binary.LittleEndian.Uint32(entry[partCountOff : partCountOff+4])
		start := int64(lba) * 512
		size := int64(count) * 512
		if start+size > int64(len(img)) {
			return nil, CORRUPT
		}
		return img[start : start+size], nil
	}
	return nil, CORRUPT
}

// CreatePartition writes a minimal MBR into the first 512 bytes of
// img, declaring one partition of type partitionType spanning the
// remainder of img (rounded down to a whole 512-byte sector), and
// returns the slice of img reserved for the ZealFS image itself.
func CreatePartition(img []byte) ([]byte, error) {
	if len(img) < mbrSize+512 {
		return nil, CORRUPT
	}

	for i := range img[:mbrPartitionTable] {
		img[i] = 0
	}
	entry := img[mbrPartitionTable : mbrPartitionTable+mbrPartitionSize]
	for i := range entry {
		entry[i] = 0
	}

	lba := uint32(1)
	sectors := uint32((len(img) - mbrSize) / 512)

	entry[partStatusOff] = 0
	entry[partTypeOff] = partitionType
	binary.LittleEndian.PutUint32(entry[partLBAOff:partLBAOff+4], lba)
	binary.LittleEndian.PutUint32(entry[partCountOff:partCountOff+4], sectors)

	for i := 1; i < mbrPartitionCount; i++ {
		off := mbrPartitionTable + i*mbrPartitionSize
		for j := 0; j < mbrPartitionSize; j++ {
			img[off+j] = 0
		}
	}

	img[mbrSignatureOffset] = mbrSignatureLo
	img[mbrSignatureOffset+1] = mbrSignatureHi

	start := int64(lba) * 512
	size := int64(sectors) * 512
	return img[start : start+size], nil
}
