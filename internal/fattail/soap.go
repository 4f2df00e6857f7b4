package fattail

import (
	"encoding/xml"
	"strconv"
)

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS          = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS          = "http://www.w3.org/2001/XMLSchema"
)

// Param is one named argument of a remote call. Names are case sensitive
// and are emitted as given. Value is encoded with encoding/xml, so it may be
// a scalar or a record.
type Param struct {
	Name  string
	Value any
}

// Params is the ordered named-parameter bag of a remote call.
type Params []Param

// String builds a string parameter.
func String(name, value string) Param {
	return Param{Name: name, Value: value}
}

// Int builds an integer parameter.
func Int(name string, value int) Param {
	return Param{Name: name, Value: strconv.Itoa(value)}
}

// operation is the SOAP body element for a call, e.g. <GetClient xmlns="...">.
type operation struct {
	name      string
	namespace string
	params    Params
}

// MarshalXML writes the operation element with its parameters as children.
func (o operation) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Space: o.namespace, Local: o.name}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, p := range o.params {
		if p.Value == nil {
			continue
		}
		if err := e.EncodeElement(p.Value, xml.StartElement{Name: xml.Name{Local: p.Name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	SoapNS  string      `xml:"xmlns:soap,attr"`
	XsiNS   string      `xml:"xmlns:xsi,attr"`
	XsdNS   string      `xml:"xmlns:xsd,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	Operation operation
}

func newEnvelope(namespace, op string, params Params) requestEnvelope {
	return requestEnvelope{
		SoapNS: soapEnvelopeNS,
		XsiNS:  xsiNS,
		XsdNS:  xsdNS,
		Body: requestBody{Operation: operation{
			name:      op,
			namespace: namespace,
			params:    params,
		}},
	}
}

// Fault is a SOAP 1.1 fault returned in place of a result.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type responseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault   *Fault `xml:"Fault"`
		Content []byte `xml:",innerxml"`
	} `xml:"Body"`
}
