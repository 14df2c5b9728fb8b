package refiner

// stopwordList covers the function words dropped during keyword
// extraction.
var stopwordList = []string{
	"the", "and", "for", "are", "was", "were", "been", "being", "have",
	"has", "had", "this", "that", "these", "those", "with", "from",
	"which", "into", "onto", "over", "under", "between", "about",
	"their", "there", "where", "when", "while", "because", "however",
	"therefore", "thus", "such", "than", "then", "them", "they", "its",
	"can", "could", "should", "would", "may", "might", "must", "shall",
	"will", "not", "also", "only", "both", "each", "more", "most",
	"other", "some", "any", "all", "our", "out", "but", "his", "her",
	"him", "she", "who", "whom", "whose", "what", "how", "why", "does",
	"did", "done", "doing", "per", "via", "upon", "within", "without",
}

// referenceCatalog is the built-in corpus the offline searcher matches
// against.
var referenceCatalog = []Citation{
	{Key: "devlin2019bert", Title: "BERT: Pre-training of Deep Bidirectional Transformers for Language Understanding", Authors: "Devlin, J. and Chang, M. and Lee, K. and Toutanova, K.", Venue: "NAACL", Year: 2019},
	{Key: "vaswani2017attention", Title: "Attention Is All You Need", Authors: "Vaswani, A. and Shazeer, N. and Parmar, N.", Venue: "NeurIPS", Year: 2017},
	{Key: "mikolov2013word", Title: "Distributed Representations of Words and Phrases and their Compositionality", Authors: "Mikolov, T. and Sutskever, I. and Chen, K.", Venue: "NeurIPS", Year: 2013},
	{Key: "lecun2015deep", Title: "Deep Learning", Authors: "LeCun, Y. and Bengio, Y. and Hinton, G.", Venue: "Nature", Year: 2015},
	{Key: "hochreiter1997long", Title: "Long Short-Term Memory", Authors: "Hochreiter, S. and Schmidhuber, J.", Venue: "Neural Computation", Year: 1997},
	{Key: "brown2020language", Title: "Language Models are Few-Shot Learners", Authors: "Brown, T. and Mann, B. and Ryder, N.", Venue: "NeurIPS", Year: 2020},
	{Key: "blei2003latent", Title: "Latent Dirichlet Allocation", Authors: "Blei, D. and Ng, A. and Jordan, M.", Venue: "JMLR", Year: 2003},
	{Key: "pedregosa2011scikit", Title: "Scikit-learn: Machine Learning in Python", Authors: "Pedregosa, F. and Varoquaux, G. and Gramfort, A.", Venue: "JMLR", Year: 2011},
	{Key: "salton1988term", Title: "Term-Weighting Approaches in Automatic Text Retrieval", Authors: "Salton, G. and Buckley, C.", Venue: "Information Processing and Management", Year: 1988},
	{Key: "page1999pagerank", Title: "The PageRank Citation Ranking: Bringing Order to the Web", Authors: "Page, L. and Brin, S. and Motwani, R. and Winograd, T.", Venue: "Stanford InfoLab", Year: 1999},
	{Key: "manning2008introduction", Title: "Introduction to Information Retrieval", Authors: "Manning, C. and Raghavan, P. and Schütze, H.", Venue: "Cambridge University Press", Year: 2008},
	{Key: "kingma2015adam", Title: "Adam: A Method for Stochastic Optimization", Authors: "Kingma, D. and Ba, J.", Venue: "ICLR", Year: 2015},
	{Key: "hofmann1999probabilistic", Title: "Probabilistic Latent Semantic Analysis", Authors: "Hofmann, T.", Venue: "UAI", Year: 1999},
	{Key: "ribeiro2016why", Title: "Why Should I Trust You? Explaining the Predictions of Any Classifier", Authors: "Ribeiro, M. and Singh, S. and Guestrin, C.", Venue: "KDD", Year: 2016},
}
