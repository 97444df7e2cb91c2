package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SiteDocument is the single aggregate document of a deployment. Version is
// bumped on every write to Images and is the optimistic concurrency token for
// read-modify-write operations on them.
type SiteDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Images       []ImageEntry       `bson:"images,omitempty" json:"images"`
	PesertaPaket *PesertaPaket      `bson:"pesertaPaket,omitempty" json:"pesertaPaket,omitempty"`
	Version      int64              `bson:"version,omitempty" json:"-"`
}

// PesertaPaket holds the participant counts per programme.
type PesertaPaket struct {
	SiswaPAUD int `bson:"siswaPAUD" json:"siswaPAUD"`
	PaketA    int `bson:"paketA" json:"paketA"`
	PaketB    int `bson:"paketB" json:"paketB"`
	PaketC    int `bson:"paketC" json:"paketC"`
}

// PesertaPaketRequest mirrors the field names the frontend posts.
type PesertaPaketRequest struct {
	PaudCount   int `json:"paudCount" binding:"min=0"`
	PaketACount int `json:"paketACount" binding:"min=0"`
	PaketBCount int `json:"paketBCount" binding:"min=0"`
	PaketCCount int `json:"paketCCount" binding:"min=0"`
}

// ToPesertaPaket maps the request onto the stored shape.
func (r PesertaPaketRequest) ToPesertaPaket() PesertaPaket {
	return PesertaPaket{
		SiswaPAUD: r.PaudCount,
		PaketA:    r.PaketACount,
		PaketB:    r.PaketBCount,
		PaketC:    r.PaketCCount,
	}
}
