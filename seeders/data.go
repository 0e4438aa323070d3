package seeders

var departmentsData = []string{
	"Общий отдел",
	"Юридический отдел",
	"Отдел кадров",
	"Бухгалтерия",
}

var categoriesData = []struct {
	Name                   string
	DefaultConfidentiality string
}{
	{Name: "Письмо", DefaultConfidentiality: "public"},
	{Name: "Приказ", DefaultConfidentiality: "internal"},
	{Name: "Договор", DefaultConfidentiality: "internal"},
	{Name: "Жалоба", DefaultConfidentiality: "public"},
	{Name: "Служебная записка", DefaultConfidentiality: "confidential"},
}

var recipientsData = []string{
	"Руководитель учреждения",
	"Заместитель руководителя",
	"Канцелярия",
	"Архив",
}

var registriesData = []struct {
	Code          string
	Name          string
	DocumentTypes []string
}{
	{Code: "ВХ", Name: "Журнал входящей корреспонденции", DocumentTypes: []string{"Входящее письмо", "Входящая жалоба"}},
	{Code: "ИСХ", Name: "Журнал исходящей корреспонденции", DocumentTypes: []string{"Исходящее письмо", "Справка"}},
	{Code: "ПР", Name: "Журнал приказов", DocumentTypes: []string{"Приказ по основной деятельности", "Приказ по личному составу"}},
}
