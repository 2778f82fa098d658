/*
 * @module service/expectations/suites
 * @description 三套芝加哥数据集的静态期望套件，固化业务知识与地理约束，不做运行时动态生成
 * @architecture 业务服务层 - 静态配置
 * @documentReference dev_docs/transform_engine.md
 * @rules 套件内容静态固化；未注册数据集返回error
 * @dependencies 标准库
 * @refs service/expectations/expectations
 */

package expectations

import (
	"fmt"

	"civicdata-service/service/dataframe"
)

// businessLicensesSuite 营业执照期望套件
var businessLicensesSuite = []Expectation{
	{Kind: KindRowCountBetween, Min: 100, Max: 50000, Notes: "有意义分析所需的最小记录量"},

	{Kind: KindColumnExists, Column: "id", Critical: true},
	{Kind: KindValuesUnique, Column: "id", Notes: "主键唯一"},
	{Kind: KindValuesNotNull, Column: "id", Critical: true},

	{Kind: KindColumnExists, Column: "legal_name", Critical: true},
	{Kind: KindValuesNotNull, Column: "legal_name"},
	{Kind: KindValueLengthsBetween, Column: "legal_name", Min: 2, Max: 200},
	{Kind: KindValuesNotMatchRegex, Column: "legal_name", Pattern: `^(test|TEST|dummy|DUMMY)`, Notes: "排除测试脏数据"},

	{Kind: KindColumnExists, Column: "license_description", Critical: true},
	{Kind: KindValuesNotNull, Column: "license_description"},

	{Kind: KindColumnExists, Column: "community_area", Critical: true},
	{Kind: KindValuesBetween, Column: "community_area", Min: 1, Max: 77, Notes: "芝加哥共77个社区区域"},
	{Kind: KindColumnExists, Column: "community_area_name", Critical: true},
	{Kind: KindValuesNotNull, Column: "community_area_name"},

	{Kind: KindValuesBetween, Column: "latitude", Min: 41.6, Max: 42.1, Notes: "芝加哥纬度边界"},
	{Kind: KindValuesBetween, Column: "longitude", Min: -87.9, Max: -87.5, Notes: "芝加哥经度边界"},
	{Kind: KindValuesBetween, Column: "ward", Min: 1, Max: 50, Notes: "芝加哥共50个选区"},
	{Kind: KindValuesMatchRegex, Column: "zip_code", Pattern: `^(606|607|608)\d{2}$`, Notes: "芝加哥邮编前缀"},

	{Kind: KindColumnExists, Column: "license_start_date", Critical: true},
	{Kind: KindValuesNotNull, Column: "license_start_date"},
	{Kind: KindColumnOfType, Column: "license_start_date", DType: dataframe.DTypeDatetime},
	{Kind: KindDatesBetween, Column: "license_start_date", MinDate: "2000-01-01"},
	{Kind: KindDatePairOrder, Column: "license_start_date", ColumnB: "expiration_date", Notes: "起始日期先于到期日期"},

	{Kind: KindColumnExists, Column: "license_status", Critical: true},
	{Kind: KindValuesInSet, Column: "license_status", ValueSet: []string{"ISSUED", "ACTIVE", "EXPIRED", "REVOKED", "SUSPENDED", "CANCELLED"}},

	{Kind: KindColumnExists, Column: "application_type"},
	{Kind: KindValuesInSet, Column: "application_type", ValueSet: []string{"ISSUE", "RENEW", "C_LOC", "C_EXST"}},

	{Kind: KindColumnExists, Column: "address"},
	{Kind: KindValuesNotNull, Column: "address"},
	{Kind: KindValueLengthsBetween, Column: "address", Min: 5, Max: 200},
}

// buildingPermitsSuite 建筑许可期望套件
var buildingPermitsSuite = []Expectation{
	{Kind: KindRowCountBetween, Min: 50, Max: 100000},

	{Kind: KindColumnExists, Column: "id", Critical: true},
	{Kind: KindValuesUnique, Column: "id"},

	{Kind: KindColumnExists, Column: "permit_", Critical: true},
	{Kind: KindValuesNotNull, Column: "permit_"},

	{Kind: KindColumnExists, Column: "permit_status", Critical: true},
	{Kind: KindValuesInSet, Column: "permit_status", ValueSet: []string{
		"PERMIT ISSUED", "PERMIT FINALED", "PERMIT CANCELLED",
		"REVIEW PENDING", "APPLICATION INCOMPLETE"}},

	{Kind: KindColumnExists, Column: "permit_type"},
	{Kind: KindValuesNotNull, Column: "permit_type"},

	{Kind: KindColumnExists, Column: "issue_date", Critical: true},
	{Kind: KindColumnOfType, Column: "issue_date", DType: dataframe.DTypeDatetime},
	{Kind: KindDatesBetween, Column: "issue_date", MinDate: "1980-01-01"},

	{Kind: KindValuesBetween, Column: "processing_time", Min: 0, Max: 3650, Notes: "办理时长天数上限十年"},
	{Kind: KindValuesBetween, Column: "community_area", Min: 1, Max: 77},

	{Kind: KindValuesBetween, Column: "building_fee_paid", Min: 0, Max: 100000},
	{Kind: KindValuesBetween, Column: "zoning_fee_paid", Min: 0, Max: 50000},
	{Kind: KindValuesBetween, Column: "other_fee_paid", Min: 0, Max: 50000},
	{Kind: KindValuesBetween, Column: "total_fee", Min: 0, Max: 200000},

	{Kind: KindValuesInSet, Column: "work_type", ValueSet: []string{
		"EASY PERMIT PROCESS", "PERMIT", "WIRING", "SIGN",
		"RENOVATION/ALTERATION", "NEW CONSTRUCTION"}},
	{Kind: KindValuesInSet, Column: "street_direction", ValueSet: []string{"N", "S", "E", "W", "NE", "NW", "SE", "SW"}},
}

// ctaBoardingsSuite 公交客流期望套件
var ctaBoardingsSuite = []Expectation{
	{Kind: KindRowCountBetween, Min: 30, Max: 5000, Notes: "约十年的日度数据上限"},

	{Kind: KindColumnExists, Column: "service_date", Critical: true},
	{Kind: KindValuesUnique, Column: "service_date", Notes: "日度聚合每天一条"},
	{Kind: KindValuesNotNull, Column: "service_date", Critical: true},
	{Kind: KindColumnOfType, Column: "service_date", DType: dataframe.DTypeDatetime},
	{Kind: KindDatesBetween, Column: "service_date", MinDate: "2010-01-01"},

	{Kind: KindColumnExists, Column: "total_rides", Critical: true},
	{Kind: KindValuesNotNull, Column: "total_rides", Critical: true},
	{Kind: KindColumnOfType, Column: "total_rides", DType: dataframe.DTypeInt64},
	{Kind: KindValuesBetween, Column: "total_rides", Min: 0, Max: 2000000, Notes: "日客流现实边界"},

	{Kind: KindMeanBetween, Column: "total_rides", Min: 200000, Max: 800000, Notes: "日均客流历史常态区间"},
	{Kind: KindQuantileBetween, Column: "total_rides", Quantile: 0.99, Min: 100000, Max: 1500000},
}

var suites = map[string][]Expectation{
	"business_licenses": businessLicensesSuite,
	"building_permits":  buildingPermitsSuite,
	"cta_boardings":     ctaBoardingsSuite,
}

// SuiteFor 取数据集对应的期望套件
func SuiteFor(datasetName string) ([]Expectation, error) {
	suite, ok := suites[datasetName]
	if !ok {
		return nil, fmt.Errorf("数据集 %s 没有期望套件", datasetName)
	}
	return suite, nil
}
