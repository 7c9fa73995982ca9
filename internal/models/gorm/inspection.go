package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Inspection is one inspection event. Every numeric column defaults to 0 and
// the JSON names are the camelCase keys clients send.
type Inspection struct {
	ID string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`

	Customer         string `gorm:"column:customer" json:"customer"`
	SerialNo         string `gorm:"column:serial_no" json:"serialNo"`
	InspectionID     string `gorm:"column:inspection_id" json:"inspectionId"`
	InspectionType   string `gorm:"column:inspection_type" json:"inspectionType"`
	ServicePerformed string `gorm:"column:service_performed" json:"servicePerformed"`
	InspectorName    string `gorm:"column:inspector_name" json:"inspectorName"`
	InspectionStatus string `gorm:"column:inspection_status" json:"inspectionStatus"`
	BVFinal          string `gorm:"column:bv_final" json:"bvFinal"`
	AktiSelf         string `gorm:"column:akti_self" json:"aktiSelf"`

	InspectionDate time.Time `gorm:"column:inspection_date;index" json:"inspectionDate"`
	Year           int       `gorm:"column:year" json:"year"`
	Month          string    `gorm:"column:month;type:varchar(16)" json:"month"`

	OfferedQtyCtn   int `gorm:"column:offered_qty_ctn;default:0" json:"offeredQtyCtn"`
	OfferedQtyPacks int `gorm:"column:offered_qty_packs;default:0" json:"offeredQtyPacks"`
	NoOfInspection  int `gorm:"column:no_of_inspection;default:0" json:"noOfInspection"`
	SampleSize      int `gorm:"column:sample_size;default:0" json:"sampleSize"`
	Pass            int `gorm:"column:pass;default:0" json:"pass"`
	Fail            int `gorm:"column:fail;default:0" json:"fail"`
	Abort           int `gorm:"column:abort;default:0" json:"abort"`
	Pending         int `gorm:"column:pending;default:0" json:"pending"`

	Major          float64 `gorm:"column:major;default:0" json:"major"`
	Minor          float64 `gorm:"column:minor;default:0" json:"minor"`
	OQL            float64 `gorm:"column:oql;default:0" json:"oql"`
	PercentAllowed float64 `gorm:"column:percent_allowed;default:0" json:"percentAllowed"`
	Critical       float64 `gorm:"column:critical;default:0" json:"critical"`
	ActualMajor    float64 `gorm:"column:actual_major;default:0" json:"actualMajor"`
	ActualMinor    float64 `gorm:"column:actual_minor;default:0" json:"actualMinor"`
	ActualOQL      float64 `gorm:"column:actual_oql;default:0" json:"actualOql"`
	DPI            float64 `gorm:"column:dpi;default:0" json:"dpi"`

	// Process defects
	Lassar   int `gorm:"column:lassar;default:0" json:"lassar"`
	Patta    int `gorm:"column:patta;default:0" json:"patta"`
	ShadeOut int `gorm:"column:shade_out;default:0" json:"shadeOut"`

	// Major defects
	PulledTerry        int `gorm:"column:pulled_terry;default:0" json:"pulledTerry"`
	RawEdge            int `gorm:"column:raw_edge;default:0" json:"rawEdge"`
	Weaving            int `gorm:"column:weaving;default:0" json:"weaving"`
	UncutThread        int `gorm:"column:uncut_thread;default:0" json:"uncutThread"`
	StainMajor         int `gorm:"column:stain_major;default:0" json:"stainMajor"`
	SkipStitch         int `gorm:"column:skip_stitch;default:0" json:"skipStitch"`
	BrokenStitch       int `gorm:"column:broken_stitch;default:0" json:"brokenStitch"`
	RunoffStitch       int `gorm:"column:runoff_stitch;default:0" json:"runoffStitch"`
	PoorShape          int `gorm:"column:poor_shape;default:0" json:"poorShape"`
	Pleat              int `gorm:"column:pleat;default:0" json:"pleat"`
	InsecureLabel      int `gorm:"column:insecure_label;default:0" json:"insecureLabel"`
	MissingLabel       int `gorm:"column:missing_label;default:0" json:"missingLabel"`
	ContaminationMajor int `gorm:"column:contamination_major;default:0" json:"contaminationMajor"`
	SlantLabel         int `gorm:"column:slant_label;default:0" json:"slantLabel"`
	DamageFabric       int `gorm:"column:damage_fabric;default:0" json:"damageFabric"`
	Hole               int `gorm:"column:hole;default:0" json:"hole"`
	LooseStitch        int `gorm:"column:loose_stitch;default:0" json:"looseStitch"`

	// Minor defects
	SingleUntrimmedThread int `gorm:"column:single_untrimmed_thread;default:0" json:"singleUntrimmedThread"`
	ContaminationMinor    int `gorm:"column:contamination_minor;default:0" json:"contaminationMinor"`
	FlyYarn               int `gorm:"column:fly_yarn;default:0" json:"flyYarn"`
	DustMark              int `gorm:"column:dust_mark;default:0" json:"dustMark"`
	StainMinor            int `gorm:"column:stain_minor;default:0" json:"stainMinor"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Inspection) TableName() string {
	return "inspections"
}

// BeforeCreate assigns the record id. Ids are never client supplied.
func (i *Inspection) BeforeCreate(tx *gormlib.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
