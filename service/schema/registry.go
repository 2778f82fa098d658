/*
 * @module service/schema/registry
 * @description 数据集目标schema注册表，内置营业执照、建筑许可、公交客流三套芝加哥开放数据schema
 * @architecture 业务服务层 - 静态注册表
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow schema查询 -> 转换规划/规则应用/期望校验
 * @rules 未注册的数据集名是配置类错误，立即返回error，不做部分处理
 * @dependencies 标准库
 * @refs service/transform, service/rules, service/expectations
 */

package schema

import (
	"fmt"

	"civicdata-service/service/models"
)

func vr(min, max float64) *models.ValidationRules {
	return &models.ValidationRules{MinValue: &min, MaxValue: &max}
}

// businessLicenses 芝加哥营业执照数据集目标schema
var businessLicenses = models.DatasetSchema{
	Name:          "business_licenses",
	Description:   "Chicago Business Licenses - Analysis Ready",
	PrimaryKey:    "id",
	DateField:     "license_start_date",
	AreaField:     "community_area",
	AreaNameField: "community_area_name",
	QualityThresholds: map[string]float64{
		"completeness_required": 0.95,
		"completeness_optional": 0.10,
		"validity_rate":         0.90,
	},
	BusinessRules: []models.BusinessRule{
		models.DateOrderRule("license_start_date", "expiration_date"),
		models.RangeRule("community_area", 1, 77),
		models.CoordinateBoundsRule("latitude", 41.6, 42.1, "longitude", -87.9, -87.5),
	},
	Fields: []models.FieldDefinition{
		// 核心标识
		{Name: "id", DesiredType: models.TypeString, Description: "Unique record identifier", Required: true, Priority: models.PriorityCritical},
		{Name: "license_id", DesiredType: models.TypeString, Description: "License ID number", Required: true, Priority: models.PriorityHigh},
		{Name: "account_number", DesiredType: models.TypeString, Description: "Account number", Priority: models.PriorityLow},
		{Name: "site_number", DesiredType: models.TypeCategory, Description: "Site number (categorized)", Priority: models.PriorityLow},

		// 企业信息
		{Name: "legal_name", DesiredType: models.TypeString, Description: "Legal business name", Required: true, Priority: models.PriorityHigh},
		{Name: "doing_business_as_name", DesiredType: models.TypeString, Description: "DBA name", Priority: models.PriorityMedium},
		{Name: "license_code", DesiredType: models.TypeCategory, Description: "License code (categorized)", Priority: models.PriorityHigh},
		{Name: "license_number", DesiredType: models.TypeString, Description: "License number", Priority: models.PriorityMedium},
		{Name: "license_description", DesiredType: models.TypeCategory, Description: "License description (categorized)", Required: true, Priority: models.PriorityCritical},
		{Name: "business_activity_id", DesiredType: models.TypeString, Description: "Business activity ID", Priority: models.PriorityMedium},
		{Name: "business_activity", DesiredType: models.TypeCategory, Description: "Business activity (categorized)", Priority: models.PriorityHigh},

		// 位置信息
		{Name: "address", DesiredType: models.TypeString, Description: "Business address", Required: true, Priority: models.PriorityHigh},
		{Name: "city", DesiredType: models.TypeCategory, Description: "City (should be Chicago)", Required: true, Priority: models.PriorityMedium},
		{Name: "state", DesiredType: models.TypeCategory, Description: "State (should be IL)", Required: true, Priority: models.PriorityLow},
		{Name: "zip_code", DesiredType: models.TypeZipcode, Description: "ZIP code (5-digit format)", Priority: models.PriorityMedium},
		{Name: "ward", DesiredType: models.TypeInteger, Description: "Ward number (1-50)", Priority: models.PriorityHigh},
		{Name: "precinct", DesiredType: models.TypeInteger, Description: "Precinct number", Priority: models.PriorityLow},
		{Name: "police_district", DesiredType: models.TypeInteger, Description: "Police district", Priority: models.PriorityMedium},
		{Name: "community_area", DesiredType: models.TypeInteger, Description: "Community area number (1-77)", Required: true, Priority: models.PriorityCritical},
		{Name: "community_area_name", DesiredType: models.TypeCategory, Description: "Community area name", Required: true, Priority: models.PriorityCritical},
		{Name: "neighborhood", DesiredType: models.TypeCategory, Description: "Neighborhood name", Priority: models.PriorityMedium},

		// 地理坐标
		{Name: "latitude", DesiredType: models.TypeFloat, Description: "Latitude coordinate (Chicago bounds)", ValidationRules: vr(41.6, 42.1), Priority: models.PriorityHigh},
		{Name: "longitude", DesiredType: models.TypeFloat, Description: "Longitude coordinate (Chicago bounds)", ValidationRules: vr(-87.9, -87.5), Priority: models.PriorityHigh},
		{Name: "location_latitude", DesiredType: models.TypeFloat, Description: "Latitude from processed location", Priority: models.PriorityMedium},
		{Name: "location_longitude", DesiredType: models.TypeFloat, Description: "Longitude from processed location", Priority: models.PriorityMedium},
		{Name: "location_human_address", DesiredType: models.TypeString, Description: "Human readable address", Priority: models.PriorityLow},

		// 申请流程
		{Name: "application_type", DesiredType: models.TypeCategory, Description: "Type of application", Required: true, Priority: models.PriorityHigh},
		{Name: "application_created_date", DesiredType: models.TypeDate, Description: "Application creation date", Priority: models.PriorityHigh},
		{Name: "application_requirements_complete", DesiredType: models.TypeDate, Description: "Requirements completion date", Priority: models.PriorityMedium},
		{Name: "payment_date", DesiredType: models.TypeDate, Description: "Payment date", Priority: models.PriorityMedium},
		{Name: "license_approved_for_issuance", DesiredType: models.TypeDate, Description: "License approval date", Priority: models.PriorityMedium},
		{Name: "date_issued", DesiredType: models.TypeDate, Description: "License issue date", Priority: models.PriorityHigh},

		// 执照生命周期
		{Name: "license_start_date", DesiredType: models.TypeDate, Description: "License start date", Required: true, Priority: models.PriorityCritical},
		{Name: "expiration_date", DesiredType: models.TypeDate, Description: "License expiration date", Priority: models.PriorityHigh},
		{Name: "license_status", DesiredType: models.TypeCategory, Description: "Current license status", Required: true, Priority: models.PriorityCritical},

		// 补充字段
		{Name: "conditional_approval", DesiredType: models.TypeBoolean, Description: "Conditional approval flag (Y/N)", Priority: models.PriorityMedium},
		{Name: "ward_precinct", DesiredType: models.TypeCategory, Description: "Ward-Precinct combination", Priority: models.PriorityLow},
		{Name: "ssa", DesiredType: models.TypeInteger, Description: "Special Service Area number", Priority: models.PriorityLow},
		{Name: "license_status_change_date", DesiredType: models.TypeDate, Description: "Status change date", Priority: models.PriorityLow},
	},
}

// buildingPermits 芝加哥建筑许可数据集目标schema
var buildingPermits = models.DatasetSchema{
	Name:       "building_permits",
	Description: "Chicago Building Permits - Analysis Ready",
	PrimaryKey: "id",
	DateField:  "issue_date",
	AreaField:  "community_area",
	QualityThresholds: map[string]float64{
		"completeness_required": 0.95,
		"completeness_optional": 0.05,
		"validity_rate":         0.85,
	},
	BusinessRules: []models.BusinessRule{
		models.DateOrderRule("application_start_date", "issue_date"),
		models.NonNegativeRule("fee"),
		models.RangeRule("community_area", 1, 77),
		models.RangeRule("processing_time", 0, 3650),
	},
	Fields: []models.FieldDefinition{
		{Name: "id", DesiredType: models.TypeString, Description: "Unique record identifier", Required: true, Priority: models.PriorityCritical},
		{Name: "permit_", DesiredType: models.TypeString, Description: "Permit number", Required: true, Priority: models.PriorityHigh},

		{Name: "permit_status", DesiredType: models.TypeCategory, Description: "Current permit status", Required: true, Priority: models.PriorityCritical},
		{Name: "permit_milestone", DesiredType: models.TypeCategory, Description: "Current milestone", Priority: models.PriorityMedium},
		{Name: "permit_type", DesiredType: models.TypeCategory, Description: "Type of permit", Required: true, Priority: models.PriorityHigh},
		{Name: "review_type", DesiredType: models.TypeCategory, Description: "Review type", Priority: models.PriorityMedium},

		{Name: "application_start_date", DesiredType: models.TypeDate, Description: "Application start date", Priority: models.PriorityHigh},
		{Name: "issue_date", DesiredType: models.TypeDate, Description: "Permit issue date", Required: true, Priority: models.PriorityCritical},
		{Name: "processing_time", DesiredType: models.TypeInteger, Description: "Processing time in days", ValidationRules: vr(0, 3650), Priority: models.PriorityHigh},

		{Name: "street_number", DesiredType: models.TypeString, Description: "Street number", Priority: models.PriorityMedium},
		{Name: "street_direction", DesiredType: models.TypeCategory, Description: "Street direction", Priority: models.PriorityLow},
		{Name: "street_name", DesiredType: models.TypeString, Description: "Street name", Priority: models.PriorityMedium},
		{Name: "community_area", DesiredType: models.TypeInteger, Description: "Community area number", Priority: models.PriorityHigh},

		{Name: "work_type", DesiredType: models.TypeCategory, Description: "Type of work", Priority: models.PriorityHigh},
		{Name: "work_description", DesiredType: models.TypeString, Description: "Work description", Priority: models.PriorityMedium},

		// 费用字段，统一currency类型
		{Name: "building_fee_paid", DesiredType: models.TypeCurrency, Description: "Building fee paid", Priority: models.PriorityMedium},
		{Name: "zoning_fee_paid", DesiredType: models.TypeCurrency, Description: "Zoning fee paid", Priority: models.PriorityLow},
		{Name: "other_fee_paid", DesiredType: models.TypeCurrency, Description: "Other fees paid", Priority: models.PriorityLow},
		{Name: "subtotal_paid", DesiredType: models.TypeCurrency, Description: "Subtotal paid", Priority: models.PriorityMedium},
		{Name: "building_fee_unpaid", DesiredType: models.TypeCurrency, Description: "Building fee unpaid", Priority: models.PriorityLow},
		{Name: "zoning_fee_unpaid", DesiredType: models.TypeCurrency, Description: "Zoning fee unpaid", Priority: models.PriorityLow},
		{Name: "other_fee_unpaid", DesiredType: models.TypeCurrency, Description: "Other fees unpaid", Priority: models.PriorityLow},
		{Name: "subtotal_unpaid", DesiredType: models.TypeCurrency, Description: "Subtotal unpaid", Priority: models.PriorityMedium},
		{Name: "building_fee_waived", DesiredType: models.TypeCurrency, Description: "Building fee waived", Priority: models.PriorityLow},
		{Name: "zoning_fee_waived", DesiredType: models.TypeCurrency, Description: "Zoning fee waived", Priority: models.PriorityLow},
		{Name: "other_fee_waived", DesiredType: models.TypeCurrency, Description: "Other fee waived", Priority: models.PriorityLow},
		{Name: "subtotal_waived", DesiredType: models.TypeCurrency, Description: "Subtotal waived", Priority: models.PriorityLow},
		{Name: "total_fee", DesiredType: models.TypeCurrency, Description: "Total fee amount", Priority: models.PriorityHigh},
	},
}

// ctaBoardings 芝加哥公交每日客流数据集目标schema
var ctaBoardings = models.DatasetSchema{
	Name:        "cta_boardings",
	Description: "Chicago Transit Authority Daily Boarding Totals - Analysis Ready",
	PrimaryKey:  "service_date",
	DateField:   "service_date",
	QualityThresholds: map[string]float64{
		"completeness_required": 1.0,
		"validity_rate":         0.95,
	},
	BusinessRules: []models.BusinessRule{
		models.RangeRule("total_rides", 0, 2000000),
		models.NotFutureRule("service_date"),
	},
	Fields: []models.FieldDefinition{
		{Name: "service_date", DesiredType: models.TypeDate, Description: "Service date", Required: true, Priority: models.PriorityCritical},
		{Name: "total_rides", DesiredType: models.TypeInteger, Description: "Total daily rides", Required: true, ValidationRules: vr(0, 2000000), Priority: models.PriorityCritical},
	},
}

var registry = map[string]*models.DatasetSchema{
	"business_licenses": &businessLicenses,
	"building_permits":  &buildingPermits,
	"cta_boardings":     &ctaBoardings,
}

// Get 获取数据集schema，未注册返回error
func Get(datasetName string) (*models.DatasetSchema, error) {
	s, ok := registry[datasetName]
	if !ok {
		return nil, fmt.Errorf("未知数据集: %s", datasetName)
	}
	return s, nil
}

// DatasetNames 返回全部已注册数据集名
func DatasetNames() []string {
	return []string{"business_licenses", "building_permits", "cta_boardings"}
}

// CriticalFields 返回critical优先级字段名
func CriticalFields(datasetName string) ([]string, error) {
	s, err := Get(datasetName)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range s.Fields {
		if f.Priority == models.PriorityCritical {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// CurrencyFields 返回货币类型字段名
func CurrencyFields(datasetName string) ([]string, error) {
	s, err := Get(datasetName)
	if err != nil {
		return nil, err
	}
	return s.FieldsByType(models.TypeCurrency), nil
}

// GenerateTransformationPlan 对比当前列类型与目标类型，生成转换计划
func GenerateTransformationPlan(datasetName string, currentDTypes map[string]string) ([]models.PlanEntry, error) {
	s, err := Get(datasetName)
	if err != nil {
		return nil, err
	}
	var plan []models.PlanEntry
	for _, f := range s.Fields {
		current, present := currentDTypes[f.Name]
		if !present {
			continue
		}
		if current != string(f.DesiredType) {
			plan = append(plan, models.PlanEntry{
				FieldName:       f.Name,
				CurrentType:     current,
				DesiredType:     f.DesiredType,
				ValidationRules: f.ValidationRules,
				Priority:        f.Priority,
			})
		}
	}
	return plan, nil
}
