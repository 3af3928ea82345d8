package domain

const (
	DatasetSupermarket = "supermarket"
	DatasetVideogames  = "videogames"
)

var salesColumns = []string{"Global_Sales", "NA_Sales", "EU_Sales", "JP_Sales", "Other_Sales"}

// Catalog retorna os datasets embutidos, indexados pelo nome
func Catalog() map[string]Dataset {
	return map[string]Dataset{
		DatasetSupermarket: supermarketDataset(),
		DatasetVideogames:  videogamesDataset(),
	}
}

func supermarketDataset() Dataset {
	productLine := PanelParam{Name: "product_line", Column: "Product line", Kind: ParamEquals, Default: "Health and beauty"}
	city := PanelParam{Name: "city", Column: "City", Kind: ParamEquals, Default: "Yangon"}

	return Dataset{
		Name:            DatasetSupermarket,
		FileName:        "supermarket.csv",
		RequiredColumns: []string{"Date", "Product line", "City", "gross income"},
		DateColumns:     []string{"Date"},
		Panels: []Panel{
			{
				Name:    "product-line-timeline",
				Title:   "Vendas da linha de produto ao longo do tempo",
				Kind:    PanelSum,
				GroupBy: []string{"Date"},
				Metric:  "gross income",
				Order:   OrderKeyAsc,
				Params:  []PanelParam{productLine},
			},
			{
				Name:    "presence",
				Title:   "Presença no país",
				Kind:    PanelSum,
				GroupBy: []string{"Latitude", "Longitude", "City"},
				Metric:  "gross income",
				Order:   OrderKeyAsc,
				Params:  []PanelParam{productLine},
			},
			{
				Name:    "income-by-product-line",
				Title:   "Receita bruta por linha de produto na cidade",
				Kind:    PanelSum,
				GroupBy: []string{"Product line"},
				Metric:  "gross income",
				Order:   OrderValueDesc,
				Params:  []PanelParam{city},
			},
			{
				Name:    "income-by-city",
				Title:   "Receita bruta por cidade",
				Kind:    PanelSum,
				GroupBy: []string{"City"},
				Metric:  "gross income",
				Order:   OrderKeyAsc,
			},
			{
				Name:    "gender-distribution",
				Title:   "Distribuição de gênero na linha de produto",
				Kind:    PanelCount,
				GroupBy: []string{"Gender"},
				Percent: true,
				Params:  []PanelParam{productLine},
			},
			{
				Name:    "payment-count",
				Title:   "Métodos de pagamento na cidade",
				Kind:    PanelCount,
				GroupBy: []string{"Payment"},
				Params:  []PanelParam{city},
			},
			{
				Name:    "gross-margin",
				Title:   "Margem bruta da linha de produto na cidade",
				Kind:    PanelSum,
				GroupBy: []string{"Date"},
				Metric:  "gross margin",
				Order:   OrderKeyAsc,
				Params:  []PanelParam{productLine, city},
			},
		},
	}
}

func videogamesDataset() Dataset {
	return Dataset{
		Name:            DatasetVideogames,
		FileName:        "videogames.csv",
		RequiredColumns: []string{"Year", "Global_Sales"},
		Panels: []Panel{
			{
				Name:    "global-sales-timeline",
				Title:   "Linha do tempo de vendas globais",
				Kind:    PanelSum,
				GroupBy: []string{"Year"},
				Metric:  "Global_Sales",
				Order:   OrderKeyAsc,
			},
			{
				Name:    "genre-sales",
				Title:   "Vendas por gênero no ano",
				Kind:    PanelSum,
				GroupBy: []string{"Genre"},
				Metric:  "Global_Sales",
				Order:   OrderValueDesc,
				Params: []PanelParam{
					{Name: "year", Column: "Year", Kind: ParamEquals, Default: "1980"},
					{Name: "sales", Kind: ParamMetric, Default: "Global_Sales", Allowed: salesColumns},
				},
			},
			{
				Name:     "genre-trends",
				Title:    "Vendas globais de jogos ao longo do tempo",
				Kind:     PanelSeries,
				GroupBy:  []string{"Year"},
				SeriesBy: "Genre",
				Metric:   "Global_Sales",
				Order:    OrderKeyAsc,
				Params: []PanelParam{
					{Name: "genres", Column: "Genre", Kind: ParamIn, Default: "Shooter"},
					{Name: "year_from", Column: "Year", Kind: ParamRangeMin, Default: "2000"},
					{Name: "year_to", Column: "Year", Kind: ParamRangeMax, Default: "2020"},
				},
			},
		},
	}
}
