package entities

import (
	c "variome/api/models/constants"
)

// Release is one immutable ingested batch. Ids ascend by one per
// ingestion; PredecessorId points at the release that was current when
// this one was allocated (0 for the very first release).
type Release struct {
	Id            int      `json:"id"`
	PredecessorId int      `json:"predecessorId"`
	Sources       []string `json:"sources"`
	Date          string   `json:"date"`
	Comment       string   `json:"comment"`
}

// Variant is one row per (hg38 coordinate, release). Rows are never
// mutated; a release that touches a coordinate inserts a fresh row and
// the coordinate's history is the set of rows across releases.
type Variant struct {
	Id        string `json:"id"`
	ReleaseId int    `json:"releaseId"`

	GenomicCoordinateHg38 string `json:"genomicCoordinateHg38" mapstructure:"Genomic_Coordinate_hg38"`
	GenomicCoordinateHg37 string `json:"genomicCoordinateHg37" mapstructure:"Genomic_Coordinate_hg37"`
	GenomicCoordinateHg36 string `json:"genomicCoordinateHg36" mapstructure:"Genomic_Coordinate_hg36"`
	Chr                   string `json:"chr" mapstructure:"Chr"`
	Ref                   string `json:"ref" mapstructure:"Ref"`
	Alt                   string `json:"alt" mapstructure:"Alt"`
	Hg37Start             int    `json:"hg37Start" mapstructure:"Hg37_Start"`
	Hg37End               int    `json:"hg37End" mapstructure:"Hg37_End"`
	HgvsCdna              string `json:"hgvsCdna" mapstructure:"HGVS_cDNA"`
	HgvsProtein           string `json:"hgvsProtein" mapstructure:"HGVS_Protein"`

	// per-source membership flags, keyed by canonical source name
	SourceMembership map[string]bool `json:"variantInSource" mapstructure:"Variant_In_Source"`

	// per-source external (BX) ids; only valid within this variant's release
	BxIds map[string][]string `json:"bxIds" mapstructure:"BX_Ids"`

	ChangeType           c.ChangeType            `json:"changeType" mapstructure:"Change_Type"`
	StructuralAnnotation *c.StructuralAnnotation `json:"structuralAnnotation" mapstructure:"Structural_Annotation"`

	AlleleFrequencyExac            *float64 `json:"alleleFrequencyExac" mapstructure:"Allele_frequency_ExAC"`
	AlleleFrequency1000Genomes     *float64 `json:"alleleFrequency1000Genomes" mapstructure:"Allele_frequency_1000_Genomes"`
	MinorAlleleFrequencyPercentEsp *float64 `json:"minorAlleleFrequencyPercentEsp" mapstructure:"Minor_allele_frequency_percent_ESP"`
}

// Report is one per-source submission, owned by exactly one Variant
// and scoped to one Release.
type Report struct {
	Id        string `json:"id"`
	ReleaseId int    `json:"releaseId"`
	VariantId string `json:"variantId"`

	// denormalized from the owning variant so a coordinate's full
	// report lineage is queryable without joining through variants
	GenomicCoordinateHg38 string `json:"genomicCoordinateHg38"`

	Source       string       `json:"source"`
	BxId         string       `json:"bxId"`
	Significance string       `json:"significance"`
	Submitters   string       `json:"submitters"`
	ChangeType   c.ChangeType `json:"changeType"`

	// the full normalized feed row, for export and audit
	Fields map[string]string `json:"fields"`
}
