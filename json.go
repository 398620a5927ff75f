package cassandra

import (
	"unsafe"

	"github.com/gocql/gocql"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
	"gopkg.in/inf.v0"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/codec"
)

// jsonAPI renders collection, tuple and user-defined values. Map keys are
// sorted so the text is stable.
var jsonAPI = func() jsoniter.API {
	api := jsoniter.Config{
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&jsonExtension{})

	return api
}()

// jsonExtension encodes the gocql element types that have no JSON form of
// their own.
type jsonExtension struct {
	jsoniter.DummyExtension
}

func (e *jsonExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	switch typ {
	case reflect2.TypeOf(inf.Dec{}):
		return decimalEncoder{}
	case reflect2.TypeOf(gocql.Duration{}):
		return durationEncoder{}
	}

	return nil
}

// decimalEncoder writes a decimal as a JSON number with its exact digits.
type decimalEncoder struct{}

func (decimalEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return (*inf.Dec)(ptr).Sign() == 0
}

func (decimalEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteRaw((*inf.Dec)(ptr).String())
}

// durationEncoder writes a duration in CQL text form, e.g. "1mo2d3ns".
type durationEncoder struct{}

func (durationEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	d := (*gocql.Duration)(ptr)
	return d.Months == 0 && d.Days == 0 && d.Nanoseconds == 0
}

func (durationEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	d := (*gocql.Duration)(ptr)
	stream.WriteString(codec.Duration{Months: d.Months, Days: d.Days, Nanoseconds: d.Nanoseconds}.String())
}
