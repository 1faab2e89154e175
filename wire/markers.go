package wire

// Marker byte ranges and fixed markers dispatch table.
// All multi-byte integers in this format are big-endian.
const (
	markerPosFixintMax = 0x7F // 0x00..0x7F: positive fixint
	markerFixmapMin    = 0x80
	markerFixmapMax    = 0x8F
	markerFixarrayMin  = 0x90
	markerFixarrayMax  = 0x9F
	markerFixstrMin    = 0xA0
	markerFixstrMax    = 0xBF

	markerNil     = 0xC0
	markerInvalid = 0xC1 // reserved, always InvalidMarker
	markerFalse   = 0xC2
	markerTrue    = 0xC3

	markerBin8  = 0xC4
	markerBin16 = 0xC5
	markerBin32 = 0xC6

	markerExt8  = 0xC7
	markerExt16 = 0xC8
	markerExt32 = 0xC9

	markerFloat32 = 0xCA
	markerFloat64 = 0xCB

	markerUint8  = 0xCC
	markerUint16 = 0xCD
	markerUint32 = 0xCE
	markerUint64 = 0xCF

	markerInt8  = 0xD0
	markerInt16 = 0xD1
	markerInt32 = 0xD2
	markerInt64 = 0xD3

	markerFixext1  = 0xD4
	markerFixext2  = 0xD5
	markerFixext4  = 0xD6
	markerFixext8  = 0xD7
	markerFixext16 = 0xD8

	markerStr8  = 0xD9
	markerStr16 = 0xDA
	markerStr32 = 0xDB

	markerArray16 = 0xDC
	markerArray32 = 0xDD

	markerMap16 = 0xDE
	markerMap32 = 0xDF

	markerNegFixintMin = 0xE0 // 0xE0..0xFF: negative fixint, value = int8(marker)
)

// Reserved extension type tags
const (
	extTimestamp    int8 = -1
	extDate         int8 = -2
	extDateTime     int8 = -3
	extBigInt       int8 = -4
	extVectorFloat  int8 = -5
	extVectorDouble int8 = -6
	// ExtTabular is the tabular extension's type tag.
	ExtTabular int8 = -10
)
