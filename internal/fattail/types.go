package fattail

import "encoding/xml"

const xmlnsAttr = "xmlns"

// Element is a child element the typed records do not model. It is kept
// verbatim so an Update call sends back the full record it was given.
type Element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// UnmarshalXML keeps the element's namespace declarations in a form the
// encoder writes back once. The default namespace is already carried by
// XMLName.Space, so its declaration is dropped. Prefixed declarations are
// kept as literal attribute names so prefixes used in Inner stay bound.
func (e *Element) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain Element
	var p plain
	if err := d.DecodeElement(&p, &start); err != nil {
		return err
	}

	attrs := p.Attrs[:0]
	for _, attr := range p.Attrs {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == xmlnsAttr:
			continue
		case attr.Name.Space == xmlnsAttr:
			attr.Name = xml.Name{Local: xmlnsAttr + ":" + attr.Name.Local}
		}
		attrs = append(attrs, attr)
	}
	if len(attrs) == 0 {
		attrs = nil
	}
	p.Attrs = attrs

	*e = Element(p)
	return nil
}

// DynamicPropertyValue is one custom property set on an Order or Drop.
type DynamicPropertyValue struct {
	DynamicPropertyID int    `xml:"DynamicPropertyID" json:"dynamic_property_id"`
	Value             string `xml:"Value" json:"value"`
}

// DynamicPropertyValues is the wrapper element around a record's property values.
// A single value and a list of values decode the same way.
type DynamicPropertyValues struct {
	Items []DynamicPropertyValue `xml:"DynamicPropertyValue"`
}

// Normalize guarantees a non-nil slice so callers never branch on absence.
func (v *DynamicPropertyValues) Normalize() {
	if v.Items == nil {
		v.Items = []DynamicPropertyValue{}
	}
}

// DynamicProperty is a property definition for a record kind.
type DynamicProperty struct {
	DynamicPropertyID int    `xml:"DynamicPropertyID" json:"dynamic_property_id"`
	Name              string `xml:"Name" json:"name"`
	DisplayName       string `xml:"DisplayName" json:"display_name"`
}

// Client is the campaign-side customer record. ExternalID holds the linked
// Edge account handle.
type Client struct {
	ClientID   int       `xml:"ClientID"`
	Name       string    `xml:"Name"`
	ExternalID string    `xml:"ExternalID"`
	Extra      []Element `xml:",any"`
}

// Order is a campaign under a Client.
type Order struct {
	OrderID               int                   `xml:"OrderID"`
	ClientID              int                   `xml:"ClientID"`
	Name                  string                `xml:"Name"`
	DynamicPropertyValues DynamicPropertyValues `xml:"DynamicPropertyValues"`
	Extra                 []Element             `xml:",any"`
}

// Drop is a line item under an Order.
type Drop struct {
	DropID                int                   `xml:"DropID"`
	OrderID               int                   `xml:"OrderID"`
	Description           string                `xml:"Description"`
	DynamicPropertyValues DynamicPropertyValues `xml:"DynamicPropertyValues"`
	Extra                 []Element             `xml:",any"`
}

// SavedReport is a report definition stored on the campaign system.
type SavedReport struct {
	SavedReportID int    `xml:"SavedReportID" json:"saved_report_id" yaml:"saved_report_id"`
	Name          string `xml:"Name" json:"name" yaml:"name"`
}

// ReportQuery is the opaque query of a saved report. It is passed back
// unchanged when a report job is started.
type ReportQuery struct {
	Inner string `xml:",innerxml"`
}

// ReportJob is the state of an asynchronous report run.
type ReportJob struct {
	ReportJobID int    `xml:"ReportJobID"`
	Status      string `xml:"Status"`
}

// RecordKind names a record type that carries dynamic properties.
type RecordKind string

const (
	// KindOrder is the Order record kind.
	KindOrder RecordKind = "order"
	// KindDrop is the Drop record kind.
	KindDrop RecordKind = "drop"
)

// Response bodies, one per operation.

type savedReportListResponse struct {
	Result struct {
		Reports []SavedReport `xml:"SavedReport"`
	} `xml:"GetSavedReportListResult"`
}

type savedReportQueryResponse struct {
	Result struct {
		Query ReportQuery `xml:"ReportQuery"`
	} `xml:"GetSavedReportQueryResult"`
}

type runReportJobResponse struct {
	Result ReportJob `xml:"RunReportJobResult"`
}

type reportJobResponse struct {
	Result ReportJob `xml:"GetReportJobResult"`
}

type reportDownloadURLResponse struct {
	Result string `xml:"GetReportDownloadURLResult"`
}

type clientResponse struct {
	Result Client `xml:"GetClientResult"`
}

type orderResponse struct {
	Result Order `xml:"GetOrderResult"`
}

type dropResponse struct {
	Result Drop `xml:"GetDropResult"`
}

// dynamicPropertiesResponse matches both GetDynamicPropertiesListFor* results.
type dynamicPropertiesResponse struct {
	Result struct {
		Items []DynamicProperty `xml:"DynamicProperty"`
	} `xml:",any"`
}

// reportJobRequest wraps the query passed to RunReportJob.
type reportJobRequest struct {
	Query ReportQuery `xml:"ReportQuery"`
}
