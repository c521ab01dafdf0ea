package carteira

import (
	"slices"
	"strings"
)

// OtherSegment is the market segment of tickers missing from the catalog.
const OtherSegment = "Outros"

// Asset describes a listed asset.
type Asset struct {
	Ticker  string
	Name    string
	Class   AssetClass
	Segment string
}

// Catalog is a read-only index of known assets by ticker.
type Catalog struct {
	assets []Asset
	index  map[string]int
}

// NewCatalog indexes assets by ticker. Later duplicates are ignored.
func NewCatalog(assets ...Asset) *Catalog {
	c := &Catalog{index: make(map[string]int, len(assets))}
	for _, a := range assets {
		a.Ticker = strings.ToUpper(a.Ticker)
		if _, dup := c.index[a.Ticker]; dup {
			continue
		}
		c.index[a.Ticker] = len(c.assets)
		c.assets = append(c.assets, a)
	}
	return c
}

// Lookup returns the asset declared for ticker.
func (c *Catalog) Lookup(ticker string) (Asset, bool) {
	if c == nil {
		return Asset{}, false
	}
	i, ok := c.index[strings.ToUpper(ticker)]
	if !ok {
		return Asset{}, false
	}
	return c.assets[i], true
}

// Segment returns the market segment of ticker or OtherSegment.
func (c *Catalog) Segment(ticker string) string {
	if a, ok := c.Lookup(ticker); ok && a.Segment != "" {
		return a.Segment
	}
	return OtherSegment
}

// Search returns up to 30 assets whose ticker starts with query or whose
// name contains it. Ticker matches come first, catalog order is kept otherwise.
func (c *Catalog) Search(query string) []Asset {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" || c == nil {
		return nil
	}
	var byTicker, byName []Asset
	for _, a := range c.assets {
		switch {
		case strings.HasPrefix(a.Ticker, query):
			byTicker = append(byTicker, a)
		case strings.Contains(strings.ToUpper(a.Name), query):
			byName = append(byName, a)
		}
	}
	res := append(byTicker, byName...)
	if len(res) > 30 {
		res = res[:30]
	}
	return res
}

// Tickers returns all tickers in catalog order.
func (c *Catalog) Tickers() []string {
	res := make([]string, 0, len(c.assets))
	for _, a := range c.assets {
		res = append(res, a.Ticker)
	}
	return res
}

// Len returns the number of assets in the catalog.
func (c *Catalog) Len() int { return len(c.assets) }

// B3 is the built-in catalog of common assets listed on B3.
var B3 = NewCatalog(b3Assets...)

func stocks(segment string, pairs ...string) []Asset {
	res := make([]Asset, 0, len(pairs)/2)
	for p := range slices.Chunk(pairs, 2) {
		res = append(res, Asset{Ticker: p[0], Name: p[1], Class: Stock, Segment: segment})
	}
	return res
}

func fiis(segment string, pairs ...string) []Asset {
	res := make([]Asset, 0, len(pairs)/2)
	for p := range slices.Chunk(pairs, 2) {
		res = append(res, Asset{Ticker: p[0], Name: p[1], Class: REITFund, Segment: segment})
	}
	return res
}

var b3Assets = slices.Concat(
	stocks("Bancos",
		"BBAS3", "Banco do Brasil ON", "BBDC3", "Bradesco ON", "BBDC4", "Bradesco PN",
		"BPAC11", "BTG Pactual Unit", "BPAC3", "BTG Pactual ON", "BPAC5", "BTG Pactual PNA",
		"ITUB3", "Itaú Unibanco ON", "ITUB4", "Itaú Unibanco PN", "ITSA3", "Itaúsa ON",
		"ITSA4", "Itaúsa PN", "SANB3", "Santander ON", "SANB4", "Santander PN",
		"SANB11", "Santander Unit", "ABCB4", "ABC Brasil PN", "BRSR6", "Banrisul PNB",
		"BNBR3", "Banco do Nordeste"),
	stocks("Financeiro", "B3SA3", "B3 ON", "CIEL3", "Cielo ON"),
	stocks("Seguros",
		"BBSE3", "BB Seguridade ON", "CXSE3", "Caixa Seguridade ON", "PSSA3", "Porto Seguro ON",
		"IRBR3", "IRB Brasil ON"),
	stocks("Petróleo e Gás",
		"PETR3", "Petrobras ON", "PETR4", "Petrobras PN", "PRIO3", "PetroRio ON",
		"RRRP3", "3R Petroleum ON", "RECV3", "PetroRecôncavo ON", "ENAT3", "Enauta ON",
		"VBBR3", "Vibra Energia ON", "UGPA3", "Ultrapar ON", "CSAN3", "Cosan ON"),
	stocks("Petroquímica",
		"BRKM3", "Braskem ON", "BRKM5", "Braskem PNA", "UNIP3", "Unipar ON", "UNIP6", "Unipar PNB"),
	stocks("Mineração", "VALE3", "Vale ON", "CMIN3", "CSN Mineração ON"),
	stocks("Siderurgia",
		"CSNA3", "CSN ON", "GGBR3", "Gerdau ON", "GGBR4", "Gerdau PN",
		"GOAU3", "Metalúrgica Gerdau ON", "GOAU4", "Metalúrgica Gerdau PN",
		"USIM3", "Usiminas ON", "USIM5", "Usiminas PNA", "FESA4", "Ferbasa PN"),
	stocks("Energia",
		"ELET3", "Eletrobras ON", "ELET6", "Eletrobras PNB", "EGIE3", "Engie Brasil ON",
		"TAEE3", "Taesa ON", "TAEE4", "Taesa PN", "TAEE11", "Taesa Unit",
		"TRPL4", "ISA CTEEP PN", "CPLE3", "Copel ON", "CPLE6", "Copel PNB",
		"CPLE11", "Copel Unit", "CMIG3", "Cemig ON", "CMIG4", "Cemig PN",
		"CPFE3", "CPFL Energia ON", "EQTL3", "Equatorial ON", "NEOE3", "Neoenergia ON",
		"ENBR3", "EDP Brasil ON", "ENEV3", "Eneva ON", "ENGI11", "Energisa Unit",
		"AURE3", "Auren Energia ON", "AESB3", "AES Brasil ON", "ALUP11", "Alupar Unit"),
	stocks("Saneamento",
		"SBSP3", "Sabesp ON", "SAPR3", "Sanepar ON", "SAPR4", "Sanepar PN",
		"SAPR11", "Sanepar Unit", "CSMG3", "Copasa ON", "AMBP3", "Ambipar ON"),
	stocks("Varejo",
		"MGLU3", "Magazine Luiza ON", "LREN3", "Lojas Renner ON", "BHIA3", "Casas Bahia ON",
		"VIIA3", "Via ON (Antigo)", "AMER3", "Americanas ON", "ARZZ3", "Arezzo ON",
		"SOMA3", "Grupo Soma ON", "PETZ3", "Petz ON", "ALPA4", "Alpargatas PN"),
	stocks("Varejo Alimentar",
		"CRFB3", "Carrefour Brasil ON", "ASAI3", "Assaí ON", "GMAT3", "Grupo Mateus ON"),
	stocks("Bebidas", "ABEV3", "Ambev ON"),
	stocks("Alimentos",
		"JBSS3", "JBS ON", "BRFS3", "BRF ON", "BEEF3", "Minerva ON", "MRFG3", "Marfrig ON",
		"MDIA3", "M. Dias Branco ON", "CAML3", "Camil ON"),
	stocks("Sucroenergético", "SMTO3", "São Martinho ON"),
	stocks("Agronegócio", "SLCE3", "SLC Agrícola ON"),
	stocks("Cosméticos", "NTCO3", "Natura ON"),
	stocks("Bens Industriais", "WEGE3", "Weg ON"),
	stocks("Industrial",
		"EMBR3", "Embraer ON", "POMO4", "Marcopolo PN", "RAPT4", "Randon PN",
		"TASA4", "Taurus Armas PN", "KEPL3", "Kepler Weber ON"),
	stocks("Papel e Celulose",
		"SUZB3", "Suzano ON", "KLBN3", "Klabin ON", "KLBN4", "Klabin PN",
		"KLBN11", "Klabin Unit", "RANI3", "Irani ON"),
	stocks("Construção Civil",
		"CYRE3", "Cyrela ON", "EZTC3", "EZTEC ON", "MRVE3", "MRV ON", "TEND3", "Tenda ON",
		"DIRR3", "Direcional ON", "CURY3", "Cury ON"),
	stocks("Imobiliário", "JHSF3", "JHSF ON"),
	stocks("Tecnologia",
		"TOTS3", "Totvs ON", "LWSA3", "Locaweb ON", "INTB3", "Intelbras ON", "MLAS3", "Multilaser ON"),
	stocks("Saúde",
		"HAPV3", "Hapvida ON", "RDOR3", "Rede D'Or ON", "RADL3", "Raia Drogasil ON",
		"FLRY3", "Fleury ON", "QUAL3", "Qualicorp ON", "VVEO3", "Viveo ON"),
	stocks("Educação",
		"SEER3", "Ser Educacional ON", "YDUQ3", "Yduqs ON", "COGN3", "Cogna ON"),
	stocks("Infraestrutura", "CCRO3", "CCR ON", "ECOR3", "Ecorodovias ON"),
	stocks("Logística", "RAIL3", "Rumo ON", "STBP3", "Santos Brasil ON"),
	stocks("Aluguel de Carros", "RENT3", "Localiza ON", "MOVI3", "Movida ON"),
	stocks("Aéreo", "AZUL4", "Azul PN", "GOLL4", "Gol PN"),
	stocks("Turismo", "CVCB3", "CVC Brasil ON"),
	fiis("FII Papel", "MXRF11", "Maxi Renda"),
	fiis("FII Híbrido", "KNRI11", "Kinea Renda"),
	fiis("FII Shopping",
		"VISC11", "Vinci Shopping", "XPML11", "XP Malls", "HGBS11", "CSHG Shopping",
		"MALL11", "Malls Brasil Plural", "HSML11", "HSI Malls"),
	fiis("FII Logística",
		"HGLG11", "CSHG Logística", "XPLG11", "XP Logística", "BTLG11", "BTG Logística",
		"BRCO11", "Bresco Logística", "LVBI11", "VBI Logística", "VILG11", "Vinci Logística",
		"RBRL11", "RBR Logística", "GGRC11", "GGR Covepi", "GALG11", "Guardian Logística (Antigo)",
		"GARE11", "Guardian Logística", "BLMG11", "BlueMacaw Logística", "PATL11", "Pátria Logística"),
)
