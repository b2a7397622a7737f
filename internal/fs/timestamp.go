package fs

import "time"

// fromBCD converts one BCD-encoded byte (each nibble a decimal digit)
// to its binary value.
func fromBCD(v byte) int { return int(v>>4)*10 + int(v&0xf) }

// toBCD converts a value in [0, 99] to its BCD encoding.
func toBCD(v int) byte { return byte(((v/10)%10)<<4 | (v % 10)) }

// timestampSize is the width, in bytes, of the BCD timestamp field
// shared by both entry formats (SPEC §4.6): year[2], month, day,
// weekday, hours, minutes, seconds.
const timestampSize = 8

// entryTime decodes the BCD timestamp starting at offset into a
// wall-clock time. Ranges are not validated (SPEC §4.6): invalid BCD
// yields an undefined but non-trapping result via time.Date's own
// field normalization.
func entryTime(entry []byte, offset int) time.Time {
	b := entry[offset : offset+timestampSize]
	century := fromBCD(b[0])
	yearInCentury := fromBCD(b[1])
	year := century*100 + yearInCentury
	month := fromBCD(b[2])
	day := fromBCD(b[3])
	hour := fromBCD(b[5])
	min := fromBCD(b[6])
	sec := fromBCD(b[7])
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local)
}

// setEntryTime encodes t as the BCD timestamp starting at offset.
func setEntryTime(entry []byte, offset int, t time.Time) {
	b := entry[offset : offset+timestampSize]
	year := t.Year()
	b[0] = toBCD(year / 100)
	b[1] = toBCD(year % 100)
	b[2] = toBCD(int(t.Month()))
	b[3] = toBCD(t.Day())
	b[4] = toBCD(int(t.Weekday()))
	b[5] = toBCD(t.Hour())
	b[6] = toBCD(t.Minute())
	b[7] = toBCD(t.Second())
}
