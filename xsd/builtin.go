package xsd

import "encoding/xml"

// The built-in datatypes known to the resolver, keyed by local name in
// the XML Schema namespace. Entries are templates: every resolver works
// on its own copies, see newTypeCache.
//
// http://www.w3.org/TR/xmlschema-2/#built-in-datatypes
var builtinTable = map[string]Datatype{
	"anyType":       {},
	"anySimpleType": {},

	"string":           {DataType: String},
	"normalizedString": {DataType: NormalizedString}, // no newlines or tabs
	"token":            {DataType: NormalizedString},
	"language":         {DataType: NormalizedString},
	"Name":             {DataType: NormalizedString},
	"NCName":           {DataType: NormalizedString},
	"NMTOKEN":          {DataType: NormalizedString},
	"ID":               {DataType: NormalizedString},
	"IDREF":            {DataType: NormalizedString},
	"QName":            {DataType: NormalizedString},
	"anyURI":           {DataType: String},
	"base64Binary":     {DataType: String},
	"hexBinary":        {DataType: String},
	"duration":         {DataType: String},
	"time":             {DataType: String},

	"decimal": {DataType: Float},
	"float":   {DataType: Float},
	"double":  {DataType: Float},

	"integer":            {DataType: Integer},
	"positiveInteger":    {DataType: Integer, Facets: Facets{MinInclusive: "1"}},
	"nonNegativeInteger": {DataType: Integer, Facets: Facets{MinInclusive: "0"}},
	"negativeInteger":    {DataType: Integer, Facets: Facets{MaxInclusive: "-1"}},
	"nonPositiveInteger": {DataType: Integer, Facets: Facets{MaxInclusive: "0"}},
	"long":               {DataType: Integer, Facets: Facets{MinInclusive: "-9223372036854775808", MaxInclusive: "9223372036854775807"}},
	"int":                {DataType: Integer, Facets: Facets{MinInclusive: "-2147483648", MaxInclusive: "2147483647"}},
	"short":              {DataType: Integer, Facets: Facets{MinInclusive: "-32768", MaxInclusive: "32767"}},
	"byte":               {DataType: Integer, Facets: Facets{MinInclusive: "-128", MaxInclusive: "127"}},
	"unsignedLong":       {DataType: Integer, Facets: Facets{MinInclusive: "0", MaxInclusive: "18446744073709551615"}},
	"unsignedInt":        {DataType: Integer, Facets: Facets{MinInclusive: "0", MaxInclusive: "4294967295"}},
	"unsignedShort":      {DataType: Integer, Facets: Facets{MinInclusive: "0", MaxInclusive: "65535"}},
	"unsignedByte":       {DataType: Integer, Facets: Facets{MinInclusive: "0", MaxInclusive: "255"}},

	"boolean":  {DataType: Boolean}, // true, false, 1, 0
	"date":     {DataType: Date},
	"dateTime": {DataType: DateTime},
}

// IsBuiltin reports whether name is one of the built-in datatypes.
func IsBuiltin(name xml.Name) bool {
	if name.Space != schemaNS {
		return false
	}
	_, ok := builtinTable[name.Local]
	return ok
}

// newTypeCache returns a type cache seeded with fresh copies of the
// built-in datatypes. Restrictions derived in one resolver can never
// reach the shared table.
func newTypeCache() map[xml.Name]Type {
	cache := make(map[xml.Name]Type, len(builtinTable))
	for local, dt := range builtinTable {
		cache[xml.Name{Space: schemaNS, Local: local}] = &SimpleType{
			Name:     local,
			Datatype: dt.clone(),
			Builtin:  true,
		}
	}
	return cache
}
