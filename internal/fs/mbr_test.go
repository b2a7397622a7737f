package fs

import "testing"

func TestCreatePartitionFindPartitionRoundTrip(t *testing.T) {
	img := make([]byte, mbrSize+8192)
	region, err := CreatePartition(img)
	if err != nil {
		t.Fatalf("CreatePartition: %v", err)
	}
	if len(region) != 8192 {
		t.Fatalf("partition region len = %d, want 8192", len(region))
	}

	if _, err := Format(region, 1); err != nil {
		t.Fatalf("Format(partition): %v", err)
	}

	found, err := FindPartition(img)
	if err != nil {
		t.Fatalf("FindPartition: %v", err)
	}
	if len(found) != len(region) {
		t.Fatalf("FindPartition region len = %d, want %d", len(found), len(region))
	}
	if found[0] != magicByte {
		t.Fatalf("FindPartition region does not start with the ZealFS magic byte")
	}
}

func TestFindPartitionRejectsMissingSignature(t *testing.T) {
	img := make([]byte, mbrSize+512)
	if _, err := FindPartition(img); err != CORRUPT {
		t.Fatalf("FindPartition(no signature) = %v, want CORRUPT", err)
	}
}

func TestFindPartitionRejectsNoMatchingType(t *testing.T) {
	img := make([]byte, mbrSize+512)
	img[mbrSignatureOffset] = mbrSignatureLo
	img[mbrSignatureOffset+1] = mbrSignatureHi
	if _, err := FindPartition(img); err != CORRUPT {
		t.Fatalf("FindPartition(no matching partition type) = %v, want CORRUPT", err)
	}
}

// TestFindPartitionRawImageFallback covers SPEC §4.8: an image with no
// MBR signature but a ZealFS magic byte at offset 0 is treated as a raw,
// unpartitioned image spanning its whole length.
func TestFindPartitionRawImageFallback(t *testing.T) {
	img := make([]byte, 8192)
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	found, err := FindPartition(fsys.Image())
	if err != nil {
		t.Fatalf("FindPartition(raw image): %v", err)
	}
	if len(found) != len(img) {
		t.Fatalf("FindPartition(raw image) region len = %d, want %d", len(found), len(img))
	}
	if found[0] != magicByte {
		t.Fatalf("FindPartition(raw image) region does not start with the ZealFS magic byte")
	}
}
